package match

import (
	"strings"
	"unicode"
)

// NormalizeName normalizes a display name for comparison.
// The normalization pipeline:
// 1. Trim surrounding whitespace.
// 2. Case-fold to lower.
//
// Inner whitespace is kept as is: "My  Board" and "My Board" are different names.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameName reports whether two names collide case-insensitively after trimming.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// CollapseWhitespace trims s and replaces every run of whitespace with a single space.
func CollapseWhitespace(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	pendingSpace := false

	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}

		if pendingSpace {
			result.WriteByte(' ')

			pendingSpace = false
		}

		result.WriteRune(r)
	}

	return result.String()
}

// Truncate cuts s to at most n characters (runes, not bytes).
// It reports whether anything was cut.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		return s, false
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}

		count++
	}

	return s, false
}

// Length returns the number of characters in s.
func Length(s string) int {
	return len([]rune(s))
}
