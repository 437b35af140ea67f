package tokenize

import (
	"iter"
	"slices"
)

// Analyzer is the full text-to-features pipeline: normalization, a base
// tokenizer, token filters and n-gram expansion.
type Analyzer struct {
	cfg     Config
	base    Tokenizer
	filters []Filter
	ngrams  *KSkipNGrams // nil for plain unigrams
}

// NewAnalyzer builds the pipeline described by cfg. Extra filters (a stemmer,
// for instance) run after stop-word removal and before n-gram expansion.
func NewAnalyzer(cfg Config, extra ...Filter) (*Analyzer, error) {
	base, err := New(cfg)
	if err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	a := &Analyzer{cfg: cfg, base: base}
	if cfg.MinTokenLength > 0 {
		a.filters = append(a.filters, LengthFilter{Min: cfg.MinTokenLength})
	}
	if len(cfg.StopWords) > 0 {
		words := cfg.StopWords
		if cfg.Lowercase {
			words = make([]string, len(cfg.StopWords))
			for i, w := range cfg.StopWords {
				words[i] = Lower(w)
			}
		}
		a.filters = append(a.filters, NewStopWordFilter(words...))
	}
	a.filters = append(a.filters, extra...)

	if cfg.NGramRange != [2]int{1, 1} || cfg.NGramSkip > 0 {
		a.ngrams, err = NewKSkipNGrams(cfg.NGramRange[0], cfg.NGramRange[1], cfg.NGramSkip, cfg.Separator)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Tokenize implements Tokenizer.
func (a *Analyzer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc := text
		if a.cfg.Lowercase {
			doc = Lower(doc)
		}
		if a.cfg.StripAccents {
			doc = StripAccents(doc)
		}
		tokens := a.base.Tokenize(doc)
		for _, f := range a.filters {
			tokens = f.Transform(tokens)
		}
		if a.ngrams != nil {
			tokens = a.ngrams.Transform(tokens)
		}
		tokens(yield)
	}
}

// Analyze returns all tokens of text.
func (a *Analyzer) Analyze(text string) []string {
	return slices.Collect(a.Tokenize(text))
}
