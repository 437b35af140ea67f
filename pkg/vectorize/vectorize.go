// Package vectorize turns document collections into sparse term matrices.
//
// Two vectorizers share the Vectorizer interface:
//
//   - CountVectorizer learns a vocabulary during Fit and counts vocabulary
//     terms per document in Transform. Vocabulary indices follow the sorted
//     (byte-wise lexicographic) order of the terms.
//   - HashingVectorizer maps every term to one of NFeatures columns with a
//     hash and needs no vocabulary; its Fit does nothing.
//
// Both return *sparse.Matrix values whose rows follow corpus order and whose
// column indices are sorted within every row.
//
// Usage Example:
//
//	v, err := vectorize.NewCountVectorizer(vectorize.DefaultOptions())
//	m, err := v.FitTransform([]string{"some sentence", "a different sentence"})
package vectorize

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/sparse"
	"github.com/chriscorrea/textvec/pkg/stem"
	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// DefaultNFeatures is the default width of the hashing space.
const DefaultNFeatures = 1 << 20

// Vectorizer is the capability set shared by all vectorizers.
type Vectorizer interface {
	// Fit learns whatever state the vectorizer needs from corpus.
	Fit(corpus []string) error
	// Transform converts corpus into a len(corpus) x features matrix.
	Transform(corpus []string) (*sparse.Matrix, error)
	// FitTransform is Fit followed by Transform on the same corpus.
	FitTransform(corpus []string) (*sparse.Matrix, error)
}

// Options configures a vectorizer.
type Options struct {
	Tokenizer tokenize.Config `json:"tokenizer" yaml:"tokenizer"`
	Stem      string          `json:"stem,omitempty" yaml:"stem"`            // stemming language, empty disables stemming
	Binary    bool            `json:"binary,omitempty" yaml:"binary"`        // store 1 instead of counts
	NFeatures int             `json:"n_features,omitempty" yaml:"nFeatures"` // hashing only
	NJobs     int             `json:"n_jobs,omitempty" yaml:"nJobs"`         // documents analyzed in parallel; -1 uses every CPU
}

// DefaultOptions returns the default options: lowercase unigrams, no
// stemming, counts, 2^20 hashing features and sequential processing.
func DefaultOptions() Options {
	return Options{
		Tokenizer: tokenize.DefaultConfig(),
		NFeatures: DefaultNFeatures,
		NJobs:     1,
	}
}

// validate checks the options shared by all vectorizers.
func (o Options) validate(op string) error {
	if err := o.Tokenizer.Validate(); err != nil {
		return err
	}
	if o.NJobs < -1 {
		return errs.Configf(op, "n_jobs=%d must be -1 or greater", o.NJobs)
	}
	if o.Stem != "" {
		if _, err := stem.ParseLanguage(o.Stem); err != nil {
			return err
		}
	}
	return nil
}

// analyzer builds the token pipeline, with a cached stemmer when requested.
func (o Options) analyzer() (*tokenize.Analyzer, error) {
	var extra []tokenize.Filter
	if o.Stem != "" {
		s, err := stem.New(o.Stem)
		if err != nil {
			return nil, err
		}
		cached, err := stem.NewCached(s, 0)
		if err != nil {
			return nil, err
		}
		extra = append(extra, cached)
	}
	return tokenize.NewAnalyzer(o.Tokenizer, extra...)
}

func (o Options) jobs() int {
	if o.NJobs == -1 {
		return runtime.GOMAXPROCS(0)
	}
	return max(o.NJobs, 1)
}

// mapDocuments applies f to every document on up to jobs goroutines. Results
// keep the order of corpus.
func mapDocuments[T any](corpus []string, jobs int, f func(doc string) T) []T {
	out := make([]T, len(corpus))
	if jobs <= 1 || len(corpus) < 2 {
		for i, doc := range corpus {
			out[i] = f(doc)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, doc := range corpus {
		g.Go(func() error {
			out[i] = f(doc)
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return out
}
