package sanitizer

// maxKeyComponentLen caps a single key component. Long enough for
// base64url session tokens, short enough to bound storage key size.
const maxKeyComponentLen = 64

// SafeKey restricts a key component to [a-zA-Z0-9._-] and caps its length.
// Rate-limit keys are built by joining components with ":"; stripping
// everything else guarantees a component can neither contain the separator
// nor collide with a differently structured key.
//
// An input with no safe characters at all yields "unknown" rather than an
// empty component, so malformed principals still rate-limit as a group
// instead of producing degenerate keys.
func SafeKey(s string) string {
	cleaned := unsafeKeyPattern.ReplaceAllString(s, "")
	cleaned = MaxLength(cleaned, maxKeyComponentLen)
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}
