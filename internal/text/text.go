package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// OneLine trims s and collapses internal whitespace, newlines included,
// to single spaces. Used where output must stay on one terminal line.
func OneLine(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CountChars returns the character count as runes (not bytes).
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns at most n characters (runes) of s.
// Multi-byte UTF-8 sequences are never split.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if CountChars(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
