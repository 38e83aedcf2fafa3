package ratelimit

import (
	"context"
	"errors"

	"github.com/resumekit/guardkit/core/sanitizer"
	"github.com/resumekit/guardkit/pkg/clock"
)

// Limiter answers "is this action allowed right now" for one endpoint's
// window configuration. Create one Limiter per endpoint class; they can
// share a Store.
type Limiter struct {
	store  Store
	config Config
	clock  clock.Clock
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock injects a time source, primarily for tests.
func WithClock(clk clock.Clock) Option {
	return func(l *Limiter) {
		if clk != nil {
			l.clock = clk
		}
	}
}

// New creates a Limiter bound to a store and window configuration.
func New(store Store, cfg Config, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{
		store:  store,
		config: cfg,
		clock:  clock.System(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Allow performs one admission check for key. A blocked request is a
// normal *Result, never an error; errors indicate storage failure only.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	count, resetAt, err := l.store.Increment(ctx, key, l.config)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return &Result{
		Limit:     l.config.MaxRequests,
		Remaining: l.config.MaxRequests - count,
		ResetAt:   resetAt,
		now:       l.clock.Now(),
	}, nil
}

// Reset clears the counter for key, immediately re-admitting the caller.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Reset(ctx, key); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Config returns the limiter's window configuration.
func (l *Limiter) Config() Config {
	return l.config
}

// Key builds a storage key from a principal and an endpoint name. Both
// components are restricted to a safe character set before joining, so
// crafted input cannot collide with or inject into another key.
func Key(principal, endpoint string) string {
	return sanitizer.SafeKey(principal) + ":" + sanitizer.SafeKey(endpoint)
}
