package sanitizer

// Metadata sanitizes a user-supplied metadata map before persistence.
// Each value is stripped of HTML tags and control characters, collapsed
// to a single line, and capped at maxValueLen runes. Keys go through
// SafeKey; entries whose key or value sanitizes to nothing are dropped.
//
// The input map is never mutated; a nil or empty input returns an empty,
// non-nil map so callers can store the result directly.
func Metadata(meta map[string]string, maxValueLen int) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		key := SafeKey(k)
		if key == "unknown" && k != "unknown" {
			continue
		}

		value := MaxLength(SingleLine(RemoveControlChars(StripHTML(v))), maxValueLen)
		if value == "" {
			continue
		}

		out[key] = value
	}
	return out
}
