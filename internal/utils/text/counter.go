// Package text provides utilities for text processing and analysis: character
// and word counting, reading-time estimates, HTML stripping and rendering of
// structured rich-text documents.
package text

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters (accents, CJK, emoji) count as one.
//
// Examples:
//
//	CountRunes("hello")  // returns 5
//	CountRunes("café")   // returns 4
//	CountRunes("")       // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.FieldsFunc(text, unicode.IsSpace))
}

// ReadingTime returns the estimated reading time in whole minutes for the
// given plain text, rounded up and never less than one.
func ReadingTime(plain string) int {
	words := CountWords(plain)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the first maxRunes characters of plain, cut back to the last
// word boundary and suffixed with an ellipsis when shortened.
func Excerpt(plain string, maxRunes int) string {
	plain = strings.Join(strings.Fields(plain), " ")
	runes := []rune(plain)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return plain
	}
	cut := string(runes[:maxRunes])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
