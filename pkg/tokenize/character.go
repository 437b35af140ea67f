package tokenize

import (
	"iter"
	"unicode/utf8"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// CharacterTokenizer emits every window of WindowSize consecutive characters.
// Text shorter than the window produces no tokens.
type CharacterTokenizer struct {
	WindowSize int
}

// NewCharacterTokenizer returns a sliding-window tokenizer.
func NewCharacterTokenizer(windowSize int) (*CharacterTokenizer, error) {
	if windowSize < 1 {
		return nil, errs.Configf("tokenize.NewCharacterTokenizer", "window_size=%d must be at least 1", windowSize)
	}
	return &CharacterTokenizer{WindowSize: windowSize}, nil
}

// Tokenize implements Tokenizer.
func (t *CharacterTokenizer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		text := clean(text)
		// byte offsets of each rune start, plus len(text)
		offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
		for i := range text {
			offsets = append(offsets, i)
		}
		offsets = append(offsets, len(text))

		for i := 0; i+t.WindowSize < len(offsets); i++ {
			if !yield(text[offsets[i]:offsets[i+t.WindowSize]]) {
				return
			}
		}
	}
}
