package detect

import (
	"strings"
	"unicode/utf8"
)

// TextStats are the counts derived from the input text alone.
type TextStats struct {
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
}

// NewTextStats counts whitespace separated words and characters (runes) in text.
func NewTextStats(text string) TextStats {
	return TextStats{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}
}
