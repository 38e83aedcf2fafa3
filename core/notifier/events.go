package notifier

import (
	"fmt"
	"time"
)

// Event codes for programmatic handling on the consumer side.
const (
	CodeRateLimited    = "rate_limited"
	CodeRetryScheduled = "retry_scheduled"
	CodeRetryExhausted = "retry_exhausted"
	CodeSessionWarning = "session_warning"
)

// RateLimited builds the event shown when a request is blocked by the
// rate limiter. retryAfter is the time until the window resets.
func RateLimited(endpoint string, retryAfter time.Duration) Event {
	return Event{
		Level:   LevelWarning,
		Code:    CodeRateLimited,
		Message: fmt.Sprintf("Too many requests. Please try again in %s.", humanize(retryAfter)),
		Meta: map[string]any{
			"endpoint":    endpoint,
			"retry_after": retryAfter.Seconds(),
		},
	}
}

// RetryScheduled builds the event shown when an operation failed and a
// retry is pending.
func RetryScheduled(op string, attempt, maxAttempts int, delay time.Duration) Event {
	return Event{
		Level:   LevelInfo,
		Code:    CodeRetryScheduled,
		Message: fmt.Sprintf("%s failed, retrying (%d of %d)...", op, attempt, maxAttempts),
		Meta: map[string]any{
			"operation":    op,
			"attempt":      attempt,
			"max_attempts": maxAttempts,
			"delay":        delay.Seconds(),
		},
	}
}

// RetryExhausted builds the event shown when every retry attempt failed.
func RetryExhausted(op string, attempts int, err error) Event {
	meta := map[string]any{
		"operation": op,
		"attempts":  attempts,
	}
	if err != nil {
		meta["error"] = err.Error()
	}
	return Event{
		Level:   LevelError,
		Code:    CodeRetryExhausted,
		Message: fmt.Sprintf("%s failed after %d attempts. Please try again later.", op, attempts),
		Meta:    meta,
	}
}

// SessionWarning builds the event shown when session validation produced
// continuity warnings.
func SessionWarning(score int, warnings []string) Event {
	return Event{
		Level:   LevelWarning,
		Code:    CodeSessionWarning,
		Message: "Your session looks unusual. You may need to sign in again.",
		Meta: map[string]any{
			"score":    score,
			"warnings": warnings,
		},
	}
}

// humanize renders a duration as user-facing text: sub-minute durations
// in whole seconds (rounded up so we never promise an earlier retry than
// the limiter allows), longer ones in whole minutes.
func humanize(d time.Duration) string {
	if d <= 0 {
		return "a moment"
	}

	if d < time.Minute {
		secs := int((d + time.Second - 1) / time.Second)
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}

	mins := int((d + time.Minute - 1) / time.Minute)
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}
