// Package text provides small text measurement helpers shared by the
// summarization tiers and engine adapters.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the
// given text. Summary lengths are reported in runes rather than bytes
// so multi-byte scripts and emoji measure correctly.
//
// Examples:
//
//	CountRunes("hello")    // returns 5
//	CountRunes("héllo")    // returns 5, not 6
//	CountRunes("")         // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-delimited words in the given text.
// Abstractive length bounds are expressed in words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
