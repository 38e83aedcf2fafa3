package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Attribute helpers return the empty Attr for nil or zero input, so call
// sites never need explicit nil checks: log.Warn("msg", logger.Error(err)).

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors",
// index-keyed to preserve order.
func Errors(errs ...error) slog.Attr {
	count := 0
	for _, err := range errs {
		if err != nil {
			count++
		}
	}
	if count == 0 {
		return slog.Attr{}
	}

	as := make([]slog.Attr, 0, count)
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// SessionID creates an attribute for session identifiers.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// Endpoint creates an attribute for endpoint class names.
func Endpoint(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("endpoint", name)
}

// RetryAfter creates an attribute for rate-limit retry hints.
func RetryAfter(d time.Duration) slog.Attr {
	return slog.Duration("retry_after", d)
}

// Attempt creates an attribute for retry attempt numbers.
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

// Score creates an attribute for session trust scores.
func Score(n int) slog.Attr {
	return slog.Int("score", n)
}

// Warnings creates an attribute for validation warning lists.
func Warnings(warnings []string) slog.Attr {
	if len(warnings) == 0 {
		return slog.Attr{}
	}
	return slog.Any("warnings", warnings)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
