// Package session provides a secure, self-expiring session registry with
// lightweight identity-continuity checks.
//
// The registry creates sessions, ages them out, caps how many can be
// active at once, and scores each session's trustworthiness from
// continuity signals. It is best-effort protective tooling for a
// single-origin application, not a cryptographically strong session
// vault: the trust score flags suspicious drift, it does not prove
// identity.
//
// # Lifecycle
//
// A session moves through these states:
//
//	Created -> Active      (any tracked activity)
//	Active  -> Inactive    (no activity within InactivityTimeout; score-penalized, kept)
//	        -> Invalidated (explicit Invalidate; kept for audit)
//	        -> Expired     (age exceeds MaxAge)
//	        -> Evicted     (removed by the cleanup sweep or the session cap)
//
// Evicted is terminal; no record is resurrected. Cleanup only deletes
// records that are both expired and inactivity-timed-out, so recently
// touched but aged sessions stay visible for audit until both conditions
// hold.
//
// # Usage
//
//	store := session.NewMemoryStore[CartData]()
//	registry, err := session.NewRegistry(store, fingerprint.FromRequest(r))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := registry.Create(ctx, map[string]string{"source": "upload-page"})
//	...
//	verdict, err := registry.Validate(ctx, sess.ID)
//	if err == nil && !verdict.Valid {
//		// prompt the user to refresh / restart the session
//	}
//
// Run the background sweep under an errgroup for guaranteed teardown:
//
//	g.Go(registry.Run(ctx))
//
// # Trust Scoring
//
// Validate starts from 100 and deducts per continuity violation: 50 when
// the session is older than MaxAge, 30 when idle past InactivityTimeout,
// 40 when the current fingerprint no longer matches the stored one, 20
// when even the stable environment signature has drifted. A session is
// valid while the score stays above 50 and it has not expired. More
// violations can only lower the score, never raise it.
//
// # Storage
//
// MemoryStore keeps records in-process. RedisStore shares them across
// processes and seals each record with authenticated encryption
// (pkg/secrets), so a store reader can neither inspect nor undetectably
// modify a session payload.
package session
