package ratelimit

import (
	"context"
	"time"
)

// Store persists per-key window counters. Implementations must handle
// concurrent access safely.
type Store interface {
	// Increment bumps the counter for key within the current window,
	// creating or replacing the window entry when the previous one has
	// expired. Returns the post-increment count and the window's reset
	// time. A count greater than cfg.MaxRequests signals a blocked
	// request; implementations should avoid growing the persisted counter
	// past the cap where the backend allows it.
	Increment(ctx context.Context, key string, cfg Config) (count int, resetAt time.Time, err error)

	// Reset removes the counter for a key (administrative override).
	Reset(ctx context.Context, key string) error
}
