package ratelimit

import "errors"

var (
	// ErrInvalidConfig is returned for a non-positive window or request cap.
	ErrInvalidConfig = errors.New("invalid rate limit configuration")
	// ErrStoreUnavailable wraps storage backend failures.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
	// ErrRateLimitExceeded is the error-shaped form of a blocked result,
	// produced by Result.Err for callers that propagate errors.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)
