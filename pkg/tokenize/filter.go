package tokenize

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultStopWords is the stop word list used when a StopWordFilter is created
// without words.
var DefaultStopWords = []string{"and", "or", "this"}

// EnglishStopWords is a short English stop word list.
var EnglishStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in",
	"into", "is", "it", "no", "not", "of", "on", "or", "such", "that", "the",
	"their", "then", "there", "these", "they", "this", "to", "was", "will", "with",
}

// StopWordFilter drops tokens found in its word list. Matching is exact, so the
// list should be in the same case as the tokens it filters.
type StopWordFilter struct {
	words map[string]struct{}
}

// NewStopWordFilter returns a filter for words, or for DefaultStopWords when
// none are given.
func NewStopWordFilter(words ...string) *StopWordFilter {
	if len(words) == 0 {
		words = DefaultStopWords
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &StopWordFilter{words: set}
}

// Contains reports whether tok is a stop word.
func (f *StopWordFilter) Contains(tok string) bool {
	_, ok := f.words[tok]
	return ok
}

// Transform implements Filter.
func (f *StopWordFilter) Transform(tokens iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range tokens {
			if f.Contains(tok) {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// LengthFilter drops tokens shorter than Min characters.
type LengthFilter struct {
	Min int
}

// Transform implements Filter.
func (f LengthFilter) Transform(tokens iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range tokens {
			if utf8.RuneCountInString(tok) < f.Min {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// Lower folds text to lower case. A new caser is used per call since casers
// keep state.
func Lower(text string) string {
	return cases.Lower(language.Und).String(text)
}

// StripAccents removes combining marks after canonical decomposition, so "é"
// becomes "e".
func StripAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
