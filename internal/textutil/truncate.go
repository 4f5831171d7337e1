// Package textutil has small text helpers shared by the prompt builders.
package textutil

// Truncate cuts s to at most maxLen bytes and appends suffix. The cut point
// backs up so a multi-byte UTF-8 sequence is never split. Strings already
// within the limit come back untouched.
func Truncate(s string, maxLen int, suffix string) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && s[cut]>>6 == 0b10 {
		cut--
	}
	return s[:cut] + suffix
}
