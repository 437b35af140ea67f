// Package counter measures corpus size for the textvec inspect command.
//
// Three counting strategies share the Counter interface: BPE tokens (using
// OpenAI's tiktoken with the cl100k_base encoding by default), whitespace
// separated words, and Unicode characters. Summarize aggregates one strategy
// over every document of a corpus.
//
// Usage Example:
//
//	c, _ := counter.NewCounter(counter.Words)
//	s := counter.Summarize(documents, c)
//	// s.Total, s.Mean, s.Min, s.Max
package counter

import (
	"strings"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Tokens uses tiktoken with cl100k_base encoding (default)
	Tokens CountingMethod = iota
	// Words counts words using whitespace splitting
	Words
	// Characters counts individual characters including whitespace
	Characters
)

// Methods lists every counting method in display order.
func Methods() []CountingMethod {
	return []CountingMethod{Characters, Words, Tokens}
}

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseCountingMethod returns the method named s.
func ParseCountingMethod(s string) (CountingMethod, error) {
	for _, m := range Methods() {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, errs.Configf("counter.ParseCountingMethod", "counting method %q is unsupported", s)
}

// NewCounter creates a Counter for method. Token counters need the BPE ranks
// of their encoding and fail when those cannot be loaded.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Tokens:
		return NewTokenCounter(DefaultEncoding)
	case Words:
		return WordCounter{}, nil
	case Characters:
		return CharCounter{}, nil
	default:
		return nil, errs.Configf("counter.NewCounter", "counting method %d is unsupported", int(method))
	}
}
