// ABOUTME: Sliding-window request limiter keyed by caller identity
// ABOUTME: In-process only; counters reset on restart and are not replica-safe
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most maxRequests per identity within a trailing window.
// It is abuse-damping, not a security boundary: state lives in memory, so a
// restart clears it, and multiple replicas each keep independent counters.
// Construct one per process and inject it into request handlers.
type Limiter struct {
	mu          sync.Mutex
	window      time.Duration
	maxRequests int
	now         func() time.Time
	calls       map[string][]time.Time
}

// New creates a Limiter allowing maxRequests per identity per window.
func New(maxRequests int, window time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
		calls:       map[string][]time.Time{},
	}
}

// Allow prunes timestamps older than the window for identity, then checks
// the count: under the limit records the call and returns true, at the limit
// returns false without recording.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.calls[identity][:0]
	for _, ts := range l.calls[identity] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.maxRequests {
		l.calls[identity] = recent
		return false
	}

	l.calls[identity] = append(recent, now)
	return true
}

// SetClock overrides the time source. Tests only.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
