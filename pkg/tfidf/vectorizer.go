package tfidf

import (
	"sync"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/sparse"
	"github.com/chriscorrea/textvec/pkg/vectorize"
)

var _ vectorize.Vectorizer = (*Vectorizer)(nil)

// base is the vectorizer producing the term counts a Vectorizer weights.
type base interface {
	vectorize.Vectorizer
	Snapshot() vectorize.Snapshot
}

// Vectorizer is a CountVectorizer or HashingVectorizer followed by a
// Transformer. Over hashed counts the document frequencies are kept per
// bucket.
type Vectorizer struct {
	kind     string // vectorize.KindCount or vectorize.KindHashing
	baseOpts vectorize.Options
	opts     Options

	mu   sync.RWMutex
	base base
	tf   *Transformer // nil before Fit
}

// NewVectorizer validates both option sets and returns an unfitted vectorizer
// over a CountVectorizer.
func NewVectorizer(countOpts vectorize.Options, opts Options) (*Vectorizer, error) {
	return newVectorizer(vectorize.KindCount, countOpts, opts)
}

// NewHashedVectorizer validates both option sets and returns an unfitted
// vectorizer over a HashingVectorizer.
func NewHashedVectorizer(hashOpts vectorize.Options, opts Options) (*Vectorizer, error) {
	return newVectorizer(vectorize.KindHashing, hashOpts, opts)
}

func newVectorizer(kind string, baseOpts vectorize.Options, opts Options) (*Vectorizer, error) {
	b, err := newBase(kind, baseOpts)
	if err != nil {
		return nil, err
	}
	if _, err := NewTransformer(opts); err != nil {
		return nil, err
	}
	return &Vectorizer{kind: kind, baseOpts: baseOpts, opts: opts, base: b}, nil
}

func newBase(kind string, opts vectorize.Options) (base, error) {
	if kind == vectorize.KindHashing {
		return vectorize.NewHashingVectorizer(opts)
	}
	return vectorize.NewCountVectorizer(opts)
}

// Fit learns the vocabulary and document frequencies of corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	_, err := v.fit(corpus)
	return err
}

// Transform returns the TF-IDF matrix of corpus.
func (v *Vectorizer) Transform(corpus []string) (*sparse.Matrix, error) {
	v.mu.RLock()
	b, tf := v.base, v.tf
	v.mu.RUnlock()
	if tf == nil {
		return nil, errs.NotFitted("tfidf.Vectorizer.Transform")
	}

	counts, err := b.Transform(corpus)
	if err != nil {
		return nil, err
	}
	return tf.Transform(counts)
}

// FitTransform fits on corpus and returns its TF-IDF matrix, tokenizing every
// document once.
func (v *Vectorizer) FitTransform(corpus []string) (*sparse.Matrix, error) {
	counts, err := v.fit(corpus)
	if err != nil {
		return nil, err
	}
	v.mu.RLock()
	tf := v.tf
	v.mu.RUnlock()
	return tf.Transform(counts)
}

// fit trains fresh components and swaps them in together, so a failure leaves
// the previous state untouched.
func (v *Vectorizer) fit(corpus []string) (*sparse.Matrix, error) {
	b, err := newBase(v.kind, v.baseOpts)
	if err != nil {
		return nil, err
	}
	counts, err := b.FitTransform(corpus)
	if err != nil {
		return nil, err
	}
	tf, err := NewTransformer(v.opts)
	if err != nil {
		return nil, err
	}
	if err := tf.Fit(counts); err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.base, v.tf = b, tf
	v.mu.Unlock()
	return counts, nil
}

// Fitted reports whether Fit has succeeded.
func (v *Vectorizer) Fitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tf != nil
}

// Kind returns the kind of the underlying vectorizer.
func (v *Vectorizer) Kind() string {
	return v.kind
}

// FeatureNames returns the vocabulary in column order, nil over hashed
// counts.
func (v *Vectorizer) FeatureNames() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if count, ok := v.base.(*vectorize.CountVectorizer); ok {
		return count.FeatureNames()
	}
	return nil
}

// Vocabulary returns the term -> column mapping, nil over hashed counts.
func (v *Vectorizer) Vocabulary() map[string]int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if count, ok := v.base.(*vectorize.CountVectorizer); ok {
		return count.Vocabulary()
	}
	return nil
}

// IDF returns the learned inverse document frequencies, nil before Fit.
func (v *Vectorizer) IDF() []float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.tf == nil {
		return nil
	}
	return v.tf.IDF()
}

// BaseOptions returns the options of the underlying vectorizer.
func (v *Vectorizer) BaseOptions() vectorize.Options {
	return v.baseOpts
}

// Options returns the TF-IDF options.
func (v *Vectorizer) Options() Options {
	return v.opts
}
