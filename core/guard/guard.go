package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/resumekit/guardkit/core/logger"
	"github.com/resumekit/guardkit/core/notifier"
	"github.com/resumekit/guardkit/core/ratelimit"
	"github.com/resumekit/guardkit/core/retry"
	"github.com/resumekit/guardkit/pkg/clock"
)

// endpoint binds one operation class to its limiter and retry policy.
type endpoint struct {
	limiter *ratelimit.Limiter
	policy  retry.Policy
}

// Guard runs client actions through admission control and retries,
// sharing one rate-limit store across all registered endpoints.
type Guard struct {
	store    ratelimit.Store
	notifier notifier.Notifier
	logger   *slog.Logger
	clock    clock.Clock

	mu        sync.RWMutex
	endpoints map[string]endpoint
}

// Option configures a Guard.
type Option func(*Guard)

// WithNotifier routes pipeline events (blocks, retries, exhaustion) to
// a display surface.
func WithNotifier(n notifier.Notifier) Option {
	return func(g *Guard) {
		if n != nil {
			g.notifier = n
		}
	}
}

// WithLogger sets the logger for admission decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock injects a time source, primarily for tests.
func WithClock(clk clock.Clock) Option {
	return func(g *Guard) {
		if clk != nil {
			g.clock = clk
		}
	}
}

// New creates a Guard over a shared rate-limit store.
func New(store ratelimit.Store, opts ...Option) (*Guard, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}

	g := &Guard{
		store:     store,
		notifier:  notifier.Noop(),
		logger:    logger.Discard(),
		clock:     clock.System(),
		endpoints: make(map[string]endpoint),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Register binds an endpoint name to a rate-limit window and retry
// policy. Registering the same name twice is an error; reconfiguration
// means building a new Guard.
func (g *Guard) Register(name string, cfg ratelimit.Config, policy retry.Policy) error {
	limiter, err := ratelimit.New(g.store, cfg, ratelimit.WithClock(g.clock))
	if err != nil {
		return err
	}

	if policy.Name == "" {
		policy.Name = name
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.endpoints[name]; exists {
		return fmt.Errorf("%w: %s", ErrEndpointExists, name)
	}

	g.endpoints[name] = endpoint{limiter: limiter, policy: policy}
	return nil
}

// Endpoints returns the registered endpoint names.
func (g *Guard) Endpoints() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.endpoints))
	for name := range g.endpoints {
		names = append(names, name)
	}
	return names
}

// Allow runs only the admission check for a principal/endpoint pair,
// for callers that want to gate UI state without executing anything.
func (g *Guard) Allow(ctx context.Context, principal, name string) (*ratelimit.Result, error) {
	ep, err := g.endpoint(name)
	if err != nil {
		return nil, err
	}
	return ep.limiter.Allow(ctx, ratelimit.Key(principal, name))
}

// Do runs op for principal against the named endpoint: admission first,
// then the operation under the endpoint's retry policy. Blocked calls
// return ratelimit.ErrRateLimitExceeded without invoking op.
//
// Do is a function rather than a method so the operation result stays
// typed.
func Do[T any](ctx context.Context, g *Guard, principal, name string, op func(context.Context) (T, error)) (T, error) {
	var zero T

	ep, err := g.endpoint(name)
	if err != nil {
		return zero, err
	}

	result, err := ep.limiter.Allow(ctx, ratelimit.Key(principal, name))
	if err != nil {
		return zero, err
	}
	if !result.Allowed() {
		g.logger.WarnContext(ctx, "request blocked by rate limit",
			logger.Endpoint(name),
			logger.RetryAfter(result.RetryAfter()))
		g.notifier.Notify(ctx, notifier.RateLimited(name, result.RetryAfter()))
		return zero, result.Err()
	}

	policy := ep.policy
	onRetry, onExhausted := policy.OnRetry, policy.OnExhausted
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		g.logger.InfoContext(ctx, "retry scheduled",
			logger.Endpoint(name),
			logger.Attempt(attempt),
			logger.Duration(delay),
			logger.Error(err))
		g.notifier.Notify(ctx, notifier.RetryScheduled(policy.Name, attempt, policy.MaxAttempts, delay))
	}
	policy.OnExhausted = func(err error) {
		if onExhausted != nil {
			onExhausted(err)
		}
		g.notifier.Notify(ctx, notifier.RetryExhausted(policy.Name, policy.MaxAttempts, err))
	}

	return retry.Do(ctx, policy, op, retry.WithClock(g.clock))
}

// Exec is Do for operations with no result value.
func (g *Guard) Exec(ctx context.Context, principal, name string, op func(context.Context) error) error {
	_, err := Do(ctx, g, principal, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Reset clears the rate-limit counter for a principal/endpoint pair.
func (g *Guard) Reset(ctx context.Context, principal, name string) error {
	ep, err := g.endpoint(name)
	if err != nil {
		return err
	}
	return ep.limiter.Reset(ctx, ratelimit.Key(principal, name))
}

func (g *Guard) endpoint(name string) (endpoint, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ep, ok := g.endpoints[name]
	if !ok {
		return endpoint{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}
	return ep, nil
}
