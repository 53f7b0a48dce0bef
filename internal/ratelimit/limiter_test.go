// ABOUTME: Tests for the sliding-window rate limiter
// ABOUTME: Uses an injected clock to step through window boundaries
package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_EleventhCallDenied(t *testing.T) {
	l := New(10, time.Minute)
	now := time.Unix(1000, 0)
	l.SetClock(func() time.Time { return now })

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("user-1"), "call %d should be allowed", i+1)
	}
	assert.False(t, l.Allow("user-1"), "11th call inside the window must be denied")
}

func TestAllow_WindowElapses(t *testing.T) {
	l := New(10, time.Minute)
	now := time.Unix(1000, 0)
	l.SetClock(func() time.Time { return now })

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("user-1"))
	}
	assert.False(t, l.Allow("user-1"))

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("user-1"), "calls must be allowed after the window clears")
}

func TestAllow_DeniedCallNotRecorded(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Unix(1000, 0)
	l.SetClock(func() time.Time { return now })

	assert.True(t, l.Allow("user-1"))
	assert.True(t, l.Allow("user-1"))

	// Hammering while denied must not extend the lockout.
	for i := 0; i < 5; i++ {
		assert.False(t, l.Allow("user-1"))
	}

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("user-1"))
}

func TestAllow_IdentitiesAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Unix(1000, 0)
	l.SetClock(func() time.Time { return now })

	assert.True(t, l.Allow("user-1"))
	assert.False(t, l.Allow("user-1"))
	assert.True(t, l.Allow("user-2"), "a saturated identity must not affect others")
}

func TestAllow_SlidingNotFixedWindow(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Unix(1000, 0)
	l.SetClock(func() time.Time { return now })

	assert.True(t, l.Allow("user-1"))
	now = now.Add(40 * time.Second)
	assert.True(t, l.Allow("user-1"))
	now = now.Add(10 * time.Second)
	assert.False(t, l.Allow("user-1"), "both calls still inside the trailing window")

	now = now.Add(15 * time.Second)
	// First call is now 65s old and pruned; second is 25s old.
	assert.True(t, l.Allow("user-1"))
}

func TestAllow_ConcurrentAccess(t *testing.T) {
	l := New(1000, time.Minute)

	var wg sync.WaitGroup
	allowed := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			allowed[n] = l.Allow("shared")
		}(i)
	}
	wg.Wait()

	for i, ok := range allowed {
		assert.True(t, ok, "call %d under the limit was denied", i)
	}
}

func TestNew_Defaults(t *testing.T) {
	l := New(0, 0)
	assert.Equal(t, 10, l.maxRequests)
	assert.Equal(t, time.Minute, l.window)
}
