package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SnipMarker separates the retained head and tail of a compacted text.
const SnipMarker = "\n\n---SNIP---\n\n"

// CleanText drops NUL bytes and control characters (keeping newline, carriage
// return and tab) and trims surrounding whitespace. Postgres TEXT columns
// reject NUL, and parsers of scanned PDFs tend to emit them.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r) || r == utf8.RuneError:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CompactText cleans s and, when it is longer than maxChars runes, keeps a
// head and a tail of equal size joined by SnipMarker. The result never exceeds
// maxChars runes.
func CompactText(s string, maxChars int) string {
	s = CleanText(s)
	if maxChars <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	half := (maxChars - utf8.RuneCountInString(SnipMarker)) / 2
	if half <= 0 {
		return string(runes[:maxChars])
	}
	return strings.TrimSpace(string(runes[:half]) + SnipMarker + string(runes[len(runes)-half:]))
}

// Truncate returns at most maxChars runes of s.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}
