// Package text measures and clips text in characters rather than bytes, so
// platform caps hold for accented letters and emoji alike.
package text

import "unicode/utf8"

// CountRunes returns the number of Unicode code points in s.
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most limit runes. When s is cut, suffix is
// appended and counted against the limit. If the suffix alone would not fit,
// the first limit runes are returned without it.
//
//	Truncate("hello world", 8, "…") // "hello w…"
func Truncate(s string, limit int, suffix string) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	keep := limit - utf8.RuneCountInString(suffix)
	if keep <= 0 {
		return string(runes[:limit])
	}
	return string(runes[:keep]) + suffix
}
