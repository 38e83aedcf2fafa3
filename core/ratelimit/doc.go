// Package ratelimit provides fixed-window rate limiting with pluggable
// storage backends.
//
// # Fixed Window With Reset
//
// Each key owns a counter tied to the current window. The first request in
// a window creates the counter with a reset deadline; requests within the
// window increment it; once the deadline passes, the next request replaces
// the counter wholesale. This gives O(1) space and update cost per key.
//
// The trade-off is window-boundary burstiness: a caller can issue up to
// 2x MaxRequests across a boundary (the tail of one window plus the head
// of the next). That is accepted by design - this limiter is best-effort
// protective tooling, not precise admission control.
//
// # Usage
//
//	store := ratelimit.NewMemoryStore()
//
//	limiter, err := ratelimit.New(store, ratelimit.Config{
//		Window:      time.Minute,
//		MaxRequests: 30,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	key := ratelimit.Key(session.Token, "UPLOAD")
//	result, err := limiter.Allow(ctx, key)
//	if err != nil {
//		// storage failure, not a limit violation
//	}
//
//	if !result.Allowed() {
//		// normal outcome, not an error
//		log.Printf("blocked, retry after %v", result.RetryAfter())
//		return
//	}
//
// Exceeding the limit is never an error return. Callers that want an error
// value (to propagate through error-shaped plumbing) can use Result.Err(),
// which yields ErrRateLimitExceeded with the retry hint attached.
//
// # Storage Backends
//
// MemoryStore keeps counters in a map guarded by a mutex and runs a
// background sweep that deletes entries whose window has passed, bounding
// memory. Call Start (or Run with an errgroup) to begin sweeping and Stop
// for graceful teardown.
//
// RedisStore shares counters across processes through Redis INCR with a
// window-scoped expiry. Concurrent processes may drift by a request or two
// around a boundary; the drift is bounded and self-corrects at the next
// window, which mirrors the cross-tab trade-off the in-browser original
// accepted.
//
// # Key Construction
//
// Keys pair a principal with an endpoint. Key passes both components
// through sanitizer.SafeKey before joining them with ":", so a crafted
// principal can neither collide with another caller's key nor smuggle a
// separator into storage.
package ratelimit
