// Package guard composes rate limiting, retries, and user notification
// into a single admission-and-execution pipeline for client actions.
//
// Each endpoint class (upload, analysis, edit, download...) is registered
// once with its own rate-limit window and retry policy. A call then goes
// through one method:
//
//	g, err := guard.New(store,
//		guard.WithNotifier(notifier.NewSlog(logger)),
//	)
//	if err != nil { ... }
//
//	err = g.Register("upload",
//		ratelimit.Config{Window: time.Minute, MaxRequests: 5},
//		retry.UploadPolicy(),
//	)
//
//	result, err := guard.Do(ctx, g, sessionToken, "upload", func(ctx context.Context) (UploadResult, error) {
//		return client.Upload(ctx, file)
//	})
//
// The pipeline is: admission check first, then the operation under its
// retry policy. A rate-limited call never invokes the operation and never
// consumes a retry attempt; it returns ratelimit.ErrRateLimitExceeded and
// emits a notification carrying the retry-after hint. Retry progress and
// exhaustion are likewise surfaced through the configured Notifier, so
// the calling code only handles the final error.
package guard
