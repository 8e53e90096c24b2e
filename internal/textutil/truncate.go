// Package textutil holds the character-budget helpers shared by the analyzer
// runner and the prompt guardrail. Budgets count characters (runes), not bytes.
package textutil

import "strings"

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		// byte length bounds rune count
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

// TruncateWithMarker cuts s to exactly n characters and appends marker when s is
// longer than n. Shorter input is returned unchanged.
func TruncateWithMarker(s string, n int, marker string) (string, bool) {
	cut := Truncate(s, n)
	if len(cut) == len(s) {
		return s, false
	}
	return cut + marker, true
}

// FirstLines returns the first n lines of s joined by newlines. A trailing line
// break does not count as an extra empty line.
func FirstLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
