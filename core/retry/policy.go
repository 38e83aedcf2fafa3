package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"os"
	"strings"
	"time"
)

// Policy controls how one operation class is retried.
type Policy struct {
	// Name labels the operation class in errors and notifications.
	Name string
	// MaxAttempts caps total invocations of the operation, first try included.
	MaxAttempts int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps exponential growth.
	MaxDelay time.Duration
	// Multiplier is the exponential factor between consecutive delays.
	Multiplier float64
	// Jitter adds a uniform random duration in [0, Jitter) to every delay,
	// spreading herds of clients that failed at the same moment.
	Jitter time.Duration
	// RetryIf decides whether an error is worth retrying. Nil retries
	// everything.
	RetryIf func(error) bool
	// OnRetry is invoked before each wait with the attempt number that
	// just failed (1-based), the wait before the next attempt (jitter
	// included), and its error.
	OnRetry func(attempt int, delay time.Duration, err error)
	// OnExhausted is invoked once when the final attempt fails.
	OnExhausted func(err error)
}

// normalized returns a copy with unusable fields replaced by safe values,
// so a zero-value Policy degrades to a single attempt rather than a panic.
func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = p.BaseDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	return p
}

// delay computes the wait after the given failed attempt (1-based).
func (p Policy) delay(attempt int) time.Duration {
	backoff := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	d := min(time.Duration(backoff), p.MaxDelay)
	if p.Jitter > 0 {
		d += rand.N(p.Jitter)
	}
	return d
}

// retryable applies the policy predicate, defaulting to retry-everything.
func (p Policy) retryable(err error) bool {
	if p.RetryIf == nil {
		return true
	}
	return p.RetryIf(err)
}

// Transient reports whether an error looks like a temporary infrastructure
// failure. Typed checks (net.Error timeouts, deadline expiry) run first;
// the substring pass catches errors that cross a serialization boundary
// and arrive as plain strings.
func Transient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"network", "timeout", "timed out", "connection", "temporar",
		"unavailable", "reset by peer", "too many requests", "429", "502", "503",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// Terminal reports whether an error indicates a permanent failure that
// retrying cannot fix: validation rejects and auth denials.
func Terminal(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"validation", "invalid", "malformed", "unauthorized", "forbidden",
		"unauthenticated", "401", "403",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// transientNotTerminal is the predicate the file-operation policies share:
// retry infrastructure hiccups, never validation or auth failures.
func transientNotTerminal(err error) bool {
	return Transient(err) && !Terminal(err)
}

// UploadPolicy retries CV file uploads. Uploads are idempotent in the
// backend, so transient failures are safe to repeat.
func UploadPolicy() Policy {
	return Policy{
		Name:        "upload",
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2,
		Jitter:      time.Second,
		RetryIf:     transientNotTerminal,
	}
}

// AnalysisPolicy retries AI analysis requests. Analysis is expensive, so
// the attempt budget is smaller than for file transfers.
func AnalysisPolicy() Policy {
	return Policy{
		Name:        "analysis",
		MaxAttempts: 2,
		BaseDelay:   3 * time.Second,
		MaxDelay:    15 * time.Second,
		Multiplier:  2,
		Jitter:      time.Second,
		RetryIf:     transientNotTerminal,
	}
}

// EditPolicy retries chat-driven edit operations.
func EditPolicy() Policy {
	return Policy{
		Name:        "edit",
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
		Jitter:      time.Second,
		RetryIf:     transientNotTerminal,
	}
}

// DownloadPolicy retries rendered-PDF downloads.
func DownloadPolicy() Policy {
	return Policy{
		Name:        "download",
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    20 * time.Second,
		Multiplier:  2,
		Jitter:      time.Second,
		RetryIf:     transientNotTerminal,
	}
}

// NetworkPolicy retries raw network calls. Anything that failed at this
// layer is assumed transient, so every error is retried.
func NetworkPolicy() Policy {
	return Policy{
		Name:        "network",
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
		Jitter:      time.Second,
		RetryIf:     func(error) bool { return true },
	}
}
