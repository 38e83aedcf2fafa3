// Package retry wraps fallible operations with classification-aware
// exponential backoff.
//
// The engine distinguishes transient failures (worth retrying) from
// terminal ones (retrying wastes quota and confuses the user). Each
// operation class the application performs - upload, analysis, edit,
// download, raw network - carries its own Policy with a predicate that
// decides which errors are retryable.
//
// # Usage
//
//	analysis, err := retry.Do(ctx, retry.AnalysisPolicy(), func(ctx context.Context) (*Analysis, error) {
//		return client.Analyze(ctx, cv)
//	})
//
//	var exhausted *retry.ExhaustedError
//	switch {
//	case err == nil:
//		// success, possibly after retries
//	case errors.As(err, &exhausted):
//		// all attempts failed; exhausted.Err is the original failure
//		log.Printf("%s failed after %d attempts", exhausted.Op, exhausted.Attempts)
//	default:
//		// terminal error, not retried
//	}
//
// Exhaustion is tagged with the ErrExhausted sentinel, so callers can
// branch with errors.Is without string matching. The original error stays
// reachable through errors.Is/errors.As on the returned error.
//
// # Backoff
//
// Delay before attempt n+1 is min(BaseDelay x Multiplier^(n-1), MaxDelay)
// plus uniform jitter in [0, Jitter). Jitter spreads herds of clients that
// failed simultaneously. Waits observe ctx; the operation itself is never
// cancelled mid-flight by this package - race the whole Do call against a
// deadline if the operation must be bounded.
package retry
