package counter

import (
	"strings"
	"unicode/utf8"
)

// WordCounter counts whitespace separated words.
type WordCounter struct{}

// Count returns the number of words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Name returns "words".
func (WordCounter) Name() string {
	return "words"
}

// CharCounter counts Unicode code points, not bytes.
type CharCounter struct{}

// Count returns the number of runes in text.
func (CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Name returns "characters".
func (CharCounter) Name() string {
	return "characters"
}
