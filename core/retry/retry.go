package retry

import (
	"context"
	"errors"

	"github.com/resumekit/guardkit/pkg/clock"
)

// options carries cross-cutting engine configuration separate from the
// per-class Policy.
type options struct {
	clock clock.Clock
}

// Option configures a Do or Exec call.
type Option func(*options)

// WithClock injects a time source for the inter-attempt waits, primarily
// for tests.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// Do invokes op until it succeeds, the policy's attempt budget runs out,
// or the policy classifies a failure as not retryable.
//
// A non-retryable failure is returned unchanged after a single invocation.
// Exhaustion returns *ExhaustedError wrapping the final failure and the
// ErrExhausted sentinel. Only the waits between attempts observe ctx; an
// in-flight op is never cancelled by this function.
func Do[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T

	o := &options{clock: clock.System()}
	for _, opt := range opts {
		opt(o)
	}

	p := policy.normalized()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !p.retryable(err) {
			return zero, err
		}

		if attempt == p.MaxAttempts {
			break
		}

		delay := p.delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}

		select {
		case <-ctx.Done():
			return zero, errors.Join(ctx.Err(), lastErr)
		case <-o.clock.After(delay):
		}
	}

	if p.OnExhausted != nil {
		p.OnExhausted(lastErr)
	}

	return zero, &ExhaustedError{Op: p.Name, Attempts: p.MaxAttempts, Err: lastErr}
}

// Exec is Do for operations with no result value.
func Exec(ctx context.Context, policy Policy, op func(context.Context) error, opts ...Option) error {
	_, err := Do(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts...)
	return err
}
