package tokenize

import (
	"iter"
	"log/slog"

	"github.com/jdkato/prose/v2"
)

// TreebankTokenizer wraps the prose tokenizer, which follows Penn Treebank
// conventions (contractions split, punctuation kept as tokens).
type TreebankTokenizer struct{}

// NewTreebankTokenizer returns a Treebank tokenizer.
func NewTreebankTokenizer() *TreebankTokenizer {
	return &TreebankTokenizer{}
}

// Tokenize implements Tokenizer.
func (t *TreebankTokenizer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc, err := prose.NewDocument(clean(text),
			prose.WithSegmentation(false),
			prose.WithTagging(false),
			prose.WithExtraction(false))
		if err != nil {
			slog.Debug("Treebank tokenization failed", "error", err)
			return
		}
		for _, tok := range doc.Tokens() {
			if tok.Text == "" {
				continue
			}
			if !yield(tok.Text) {
				return
			}
		}
	}
}
