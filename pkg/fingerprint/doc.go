// Package fingerprint derives a weak identity-continuity signature from
// stable environment signals.
//
// A fingerprint is NOT a cryptographic identity. It answers one question:
// does the environment a session is being used from still look like the
// environment it was created from? A mismatch is a continuity warning, not
// proof of compromise.
//
// Signals come from a SignalProvider, so the same hashing and validation
// logic serves different targets:
//
//   - FromRequest(r) fingerprints an HTTP client (user agent, accept
//     headers, which standard headers are present).
//   - Host() fingerprints the local process environment (hostname,
//     OS/architecture, CPU count, locale) for CLI and server targets.
//
// Basic usage:
//
//	fp := fingerprint.Generate(fingerprint.FromRequest(r))
//	// store fp with the session...
//
//	if err := fingerprint.Validate(fingerprint.FromRequest(r), stored); err != nil {
//	    // fingerprint.ErrMismatch - environment changed since creation
//	}
//
// Fingerprints are version-prefixed ("v1:" + 32 hex chars) so the hashing
// scheme can evolve without invalidating stored values silently.
package fingerprint
