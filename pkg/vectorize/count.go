package vectorize

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/sparse"
	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// CountVectorizer counts vocabulary terms per document.
//
// The vocabulary is replaced atomically by every successful Fit; a failed Fit
// leaves the previous vocabulary in place. Fit and Transform may be called
// concurrently on the same instance.
type CountVectorizer struct {
	opts     Options
	analyzer *tokenize.Analyzer

	mu    sync.RWMutex
	vocab map[string]int // term -> column
	terms []string       // column -> term, sorted
}

// NewCountVectorizer validates opts and returns an unfitted vectorizer.
func NewCountVectorizer(opts Options) (*CountVectorizer, error) {
	if err := opts.validate("vectorize.NewCountVectorizer"); err != nil {
		return nil, err
	}
	a, err := opts.analyzer()
	if err != nil {
		return nil, err
	}
	return &CountVectorizer{opts: opts, analyzer: a}, nil
}

// Options returns the construction options.
func (v *CountVectorizer) Options() Options {
	return v.opts
}

// Analyzer returns the token pipeline used for every document.
func (v *CountVectorizer) Analyzer() *tokenize.Analyzer {
	return v.analyzer
}

// Fit builds the vocabulary of corpus.
func (v *CountVectorizer) Fit(corpus []string) error {
	counts := v.count(corpus)
	vocab, terms, err := buildVocabulary(counts)
	if err != nil {
		return err
	}
	v.swap(vocab, terms)
	return nil
}

// Transform counts the vocabulary terms of every document. Terms missing from
// the vocabulary are ignored.
func (v *CountVectorizer) Transform(corpus []string) (*sparse.Matrix, error) {
	v.mu.RLock()
	vocab, terms := v.vocab, v.terms
	v.mu.RUnlock()
	if vocab == nil {
		return nil, errs.NotFitted("CountVectorizer.Transform")
	}

	m := v.matrix(v.count(corpus), vocab, len(terms))
	slog.Debug("Count vectorizer transformed corpus", "documents", m.Rows(), "features", m.Cols(), "nnz", m.NNZ())
	return m, nil
}

// FitTransform fits the vocabulary and returns the counts of corpus,
// tokenizing every document once.
func (v *CountVectorizer) FitTransform(corpus []string) (*sparse.Matrix, error) {
	counts := v.count(corpus)
	vocab, terms, err := buildVocabulary(counts)
	if err != nil {
		return nil, err
	}
	m := v.matrix(counts, vocab, len(terms))
	v.swap(vocab, terms)
	return m, nil
}

// Fitted reports whether a vocabulary is available.
func (v *CountVectorizer) Fitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vocab != nil
}

// Vocabulary returns a copy of the term -> column mapping, nil before Fit.
func (v *CountVectorizer) Vocabulary() map[string]int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.vocab == nil {
		return nil
	}
	return maps.Clone(v.vocab)
}

// FeatureNames returns the terms in column order, nil before Fit.
func (v *CountVectorizer) FeatureNames() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.terms)
}

// InverseTransform returns, for every row of m, the terms with a stored value.
func (v *CountVectorizer) InverseTransform(m *sparse.Matrix) ([][]string, error) {
	const op = "CountVectorizer.InverseTransform"
	v.mu.RLock()
	terms := v.terms
	v.mu.RUnlock()
	if terms == nil {
		return nil, errs.NotFitted(op)
	}
	if m == nil {
		return nil, errs.Inputf(op, "matrix is nil")
	}
	if m.Cols() != len(terms) {
		return nil, errs.Inputf(op, "matrix has %d columns, vocabulary has %d terms", m.Cols(), len(terms))
	}

	out := make([][]string, m.Rows())
	for r := range out {
		cols, _ := m.Row(r)
		out[r] = make([]string, len(cols))
		for i, c := range cols {
			out[r][i] = terms[c]
		}
	}
	return out, nil
}

// count returns the term counts of every document.
func (v *CountVectorizer) count(corpus []string) []map[string]int {
	return mapDocuments(corpus, v.opts.jobs(), func(doc string) map[string]int {
		counts := make(map[string]int)
		for tok := range v.analyzer.Tokenize(doc) {
			counts[tok]++
		}
		return counts
	})
}

// matrix lays out document counts over the columns of vocab.
func (v *CountVectorizer) matrix(counts []map[string]int, vocab map[string]int, cols int) *sparse.Matrix {
	b := sparse.NewBuilder(cols)
	row := make(map[int]float64)
	for _, doc := range counts {
		clear(row)
		for term, n := range doc {
			col, ok := vocab[term]
			if !ok {
				continue
			}
			if v.opts.Binary {
				row[col] = 1
			} else {
				row[col] = float64(n)
			}
		}
		b.AppendRow(row)
	}
	return b.Build()
}

func (v *CountVectorizer) swap(vocab map[string]int, terms []string) {
	v.mu.Lock()
	v.vocab, v.terms = vocab, terms
	v.mu.Unlock()
	slog.Debug("Count vectorizer fitted", "vocabularySize", len(terms))
}

// buildVocabulary indexes every distinct term in sorted order.
func buildVocabulary(counts []map[string]int) (map[string]int, []string, error) {
	seen := make(map[string]struct{})
	for _, doc := range counts {
		for term := range doc {
			seen[term] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, nil, errs.Inputf("CountVectorizer.Fit", "empty vocabulary; the %d documents contain no tokens", len(counts))
	}
	terms := slices.Sorted(maps.Keys(seen))
	return indexTerms(terms), terms, nil
}

func indexTerms(terms []string) map[string]int {
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}
