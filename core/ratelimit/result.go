package ratelimit

import (
	"fmt"
	"time"
)

// Result reports the outcome of a single admission check.
type Result struct {
	// Limit is the configured maximum for the window.
	Limit int
	// Remaining is how many requests are left in the current window.
	// Negative values are possible internally; read through the struct
	// directly only when you want the raw counter.
	Remaining int
	// ResetAt is when the current window ends and the counter resets.
	ResetAt time.Time

	now time.Time
}

// Allowed reports whether the request was admitted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long the caller should wait before retrying.
// Zero when the request was allowed or the window has already reset.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(r.now), 0)
}

// Err converts a blocked result into ErrRateLimitExceeded with the retry
// hint attached. Returns nil for an allowed result, so it can be returned
// unconditionally from error-shaped call paths.
func (r *Result) Err() error {
	if r.Allowed() {
		return nil
	}
	return fmt.Errorf("%w: retry after %s", ErrRateLimitExceeded, r.RetryAfter().Round(time.Second))
}
