// Package sanitizer provides input sanitization helpers shared by the
// rate limiter, session registry, and anything else that stores
// caller-supplied strings.
//
// Two concerns live here:
//
//   - Key safety: rate-limit keys are built by concatenating a principal
//     and an endpoint name. SafeKey restricts each component to a safe
//     character set so a crafted principal cannot collide with or inject
//     into another caller's key.
//
//   - Metadata hygiene: session metadata is free-form user input. Metadata
//     strips HTML tags, removes control characters, and caps lengths before
//     anything is persisted.
//
// Basic usage:
//
//	key := sanitizer.SafeKey(principal) + ":" + sanitizer.SafeKey(endpoint)
//
//	meta := sanitizer.Metadata(map[string]string{
//		"source": "<script>alert(1)</script>upload-page",
//	}, 256)
//	// meta["source"] == "alert(1)upload-page"
//
// All functions are pure and safe for concurrent use.
package sanitizer
