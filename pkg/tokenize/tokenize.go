// Package tokenize splits documents into token sequences.
//
// A Tokenizer turns one document into a lazy, restartable iter.Seq[string].
// Several boundary rules are available (see Kind): a regular expression, UAX#29
// word segmentation, the segmentation-plus-rules "vtext" tokenizer, sliding
// character windows and a Penn Treebank style tokenizer. An Analyzer chains a
// base tokenizer with text normalization, token filters and n-gram expansion and
// is what the vectorizers consume.
//
// Usage Example:
//
//	a, err := tokenize.NewAnalyzer(tokenize.DefaultConfig())
//	for tok := range a.Tokenize("The quick brown fox") {
//		fmt.Println(tok)
//	}
package tokenize

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// DefaultPattern matches runs of two or more Unicode word characters.
const DefaultPattern = `[\p{L}\p{M}\p{N}_]{2,}`

// Tokenizer splits a document into tokens.
type Tokenizer interface {
	// Tokenize returns the tokens of text. Ranging over the result more than
	// once tokenizes again; breaking out early stops the work.
	Tokenize(text string) iter.Seq[string]
}

// Filter rewrites a token stream. Stop-word removal, stemming and n-gram
// expansion are filters.
type Filter interface {
	Transform(tokens iter.Seq[string]) iter.Seq[string]
}

// FilterFunc adapts a per-token function to a Filter. Tokens mapped to the
// empty string are dropped.
type FilterFunc func(string) string

// Transform applies f to every token.
func (f FilterFunc) Transform(tokens iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range tokens {
			if out := f(tok); out != "" && !yield(out) {
				return
			}
		}
	}
}

// Kind selects the boundary rule of the base tokenizer.
type Kind int

const (
	// Regexp emits every match of Config.Pattern (default)
	Regexp Kind = iota
	// Segment uses Unicode (UAX#29) word boundaries
	Segment
	// VText is Segment plus merge and split rules for punctuation, contractions
	// and elisions
	VText
	// Character emits overlapping windows of Config.WindowSize characters
	Character
	// Treebank uses the prose Penn Treebank tokenizer
	Treebank
)

var kindNames = [...]string{
	Regexp:    "regexp",
	Segment:   "segment",
	VText:     "vtext",
	Character: "character",
	Treebank:  "treebank",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, errs.Configf("tokenize.ParseKind", "tokenizer kind %q is unsupported", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k.String() == "unknown" {
		return nil, errs.Configf("tokenize.Kind", "tokenizer kind %d is unsupported", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Config holds tokenizer and analyzer options. Zero values fall back to the
// defaults of DefaultConfig except for the boolean switches.
type Config struct {
	Kind           Kind     `json:"kind" yaml:"kind"`
	Pattern        string   `json:"pattern,omitempty" yaml:"pattern"`
	Lowercase      bool     `json:"lowercase" yaml:"lowercase"`
	StripAccents   bool     `json:"strip_accents,omitempty" yaml:"stripAccents"`
	MinTokenLength int      `json:"min_token_length,omitempty" yaml:"minTokenLength"`
	NGramRange     [2]int   `json:"ngram_range" yaml:"ngramRange"` // min_n, max_n
	NGramSkip      int      `json:"ngram_skip,omitempty" yaml:"ngramSkip"`
	Separator      string   `json:"separator,omitempty" yaml:"separator"` // joins n-gram parts
	StopWords      []string `json:"stop_words,omitempty" yaml:"stopWords"`
	Lang           string   `json:"lang,omitempty" yaml:"lang"`              // vtext rules
	WindowSize     int      `json:"window_size,omitempty" yaml:"windowSize"` // character windows
	WordBounds     bool     `json:"word_bounds,omitempty" yaml:"wordBounds"` // keep punctuation segments
}

// DefaultConfig returns the analyzer configuration used by the vectorizers:
// lowercase unigrams of two or more word characters.
func DefaultConfig() Config {
	return Config{
		Kind:       Regexp,
		Pattern:    DefaultPattern,
		Lowercase:  true,
		NGramRange: [2]int{1, 1},
		Separator:  " ",
		Lang:       "en",
		WindowSize: 4,
	}
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	if c.NGramRange == [2]int{} {
		c.NGramRange = [2]int{1, 1}
	}
	if c.Separator == "" {
		c.Separator = " "
	}
	if c.WindowSize == 0 {
		c.WindowSize = 4
	}
	return c
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	c = c.withDefaults()
	const op = "tokenize.Config"
	if c.Kind.String() == "unknown" {
		return errs.Configf(op, "tokenizer kind %d is unsupported", int(c.Kind))
	}
	if c.NGramRange[0] < 1 {
		return errs.Configf(op, "ngram_range min_n=%d must be at least 1", c.NGramRange[0])
	}
	if c.NGramRange[0] > c.NGramRange[1] {
		return errs.Configf(op, "ngram_range min_n=%d is greater than max_n=%d", c.NGramRange[0], c.NGramRange[1])
	}
	if c.NGramSkip < 0 {
		return errs.Configf(op, "ngram_skip=%d must not be negative", c.NGramSkip)
	}
	if c.MinTokenLength < 0 {
		return errs.Configf(op, "min_token_length=%d must not be negative", c.MinTokenLength)
	}
	if c.WindowSize < 1 {
		return errs.Configf(op, "window_size=%d must be at least 1", c.WindowSize)
	}
	if c.Kind == Regexp {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return errs.Configf(op, "invalid pattern %q: %v", c.Pattern, err)
		}
	}
	return nil
}

// New returns the base tokenizer selected by cfg.Kind. Normalization, filters
// and n-grams are not applied; use NewAnalyzer for the full pipeline.
func New(cfg Config) (Tokenizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	switch cfg.Kind {
	case Regexp:
		return NewRegexpTokenizer(cfg.Pattern)
	case Segment:
		return NewSegmentTokenizer(cfg.WordBounds), nil
	case VText:
		return NewVTextTokenizer(cfg.Lang), nil
	case Character:
		return NewCharacterTokenizer(cfg.WindowSize)
	case Treebank:
		return NewTreebankTokenizer(), nil
	default:
		return nil, fmt.Errorf("unreachable tokenizer kind %v", cfg.Kind)
	}
}

// clean replaces invalid UTF-8 with a space so that it acts as a boundary.
func clean(text string) string {
	return strings.ToValidUTF8(text, " ")
}
