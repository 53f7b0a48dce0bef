// ABOUTME: Tests for the jittered exponential backoff helper
// ABOUTME: Validates growth, caps, jitter bounds, and degenerate attempts
package util

import (
	"testing"
	"time"
)

func TestCalculateBackoff_NonPositiveAttempt(t *testing.T) {
	for _, attempt := range []int{0, -1, -100} {
		if got := CalculateBackoff(time.Second, attempt); got != 0 {
			t.Errorf("CalculateBackoff(1s, %d) = %v, want 0", attempt, got)
		}
	}
}

func TestCalculateBackoff_GrowthWithinJitterBounds(t *testing.T) {
	baseDelay := 100 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		expectedBase := baseDelay * time.Duration(1<<uint(attempt))
		minExpected := expectedBase * 3 / 4
		maxExpected := expectedBase * 5 / 4

		result := CalculateBackoff(baseDelay, attempt)
		if result < minExpected || result > maxExpected {
			t.Errorf("attempt %d: backoff %v outside [%v, %v]", attempt, result, minExpected, maxExpected)
		}
	}
}

func TestCalculateBackoff_CapsAt30Seconds(t *testing.T) {
	maxAllowed := 37500 * time.Millisecond // 30s plus 25% jitter

	for _, attempt := range []int{10, 30, 100} {
		result := CalculateBackoff(time.Second, attempt)
		if result > maxAllowed {
			t.Errorf("attempt %d: backoff %v exceeds cap %v", attempt, result, maxAllowed)
		}
		if result < 0 {
			t.Errorf("attempt %d: backoff %v is negative", attempt, result)
		}
	}
}

func TestCalculateBackoff_JitterVaries(t *testing.T) {
	first := CalculateBackoff(time.Second, 2)
	varied := false
	for i := 0; i < 100; i++ {
		r := CalculateBackoff(time.Second, 2)
		if r != first {
			varied = true
		}
		if r < 3*time.Second || r > 5*time.Second {
			t.Errorf("sample %d: backoff %v outside [3s, 5s]", i, r)
		}
	}
	if !varied {
		t.Error("jitter produced 100 identical samples")
	}
}
