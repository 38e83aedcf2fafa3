package retry

import (
	"errors"
	"fmt"
)

// ErrExhausted tags errors returned after the final allowed attempt.
// Check with errors.Is; the original failure remains reachable through
// errors.As on the concrete *ExhaustedError.
var ErrExhausted = errors.New("retry attempts exhausted")

// ExhaustedError reports that every allowed attempt failed. It wraps the
// last error unchanged and records how many attempts were made.
type ExhaustedError struct {
	// Op names the operation class (e.g. "upload"), empty if the policy
	// carries no name.
	Op string
	// Attempts is the number of times the operation was invoked.
	Attempts int
	// Err is the failure from the final attempt, unchanged.
	Err error
}

func (e *ExhaustedError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %d attempts exhausted: %v", e.Op, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%d attempts exhausted: %v", e.Attempts, e.Err)
}

// Unwrap exposes both the stable sentinel and the original error so that
// errors.Is(err, ErrExhausted) and errors.Is(err, originalErr) both hold.
func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Err}
}
