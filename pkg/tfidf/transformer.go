// Package tfidf provides TF-IDF (Term Frequency-Inverse Document Frequency) weighting.
//
// A Transformer rescales a document-term count matrix, such as the output of
// vectorize.CountVectorizer or vectorize.HashingVectorizer, using document
// frequencies learned during its own Fit. Vectorizer chains a count vectorizer
// and a Transformer, and Corpus ranks documents against a query with it.
//
// The TF-IDF weight of a stored count combines:
//   - Term Frequency (TF): the count itself, or 1 + ln(count) with SublinearTF
//   - Inverse Document Frequency (IDF): ln((n + 1) / (df + 1)) + 1 when smoothed,
//     ln(n / df) + 1 otherwise, for n fitted documents and df documents
//     containing the term
//
// Rows are then L2-normalized unless Norm is NormNone.
//
// Usage Example:
//
//	t, _ := tfidf.NewTransformer(tfidf.DefaultOptions())
//	weights, err := t.FitTransform(counts)
package tfidf

import (
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/sparse"
)

// Norm selects row normalization.
type Norm int

const (
	// NormL2 scales every row to unit Euclidean length (default)
	NormL2 Norm = iota
	// NormNone leaves rows unscaled
	NormNone
)

// String returns the string representation of the norm.
func (n Norm) String() string {
	switch n {
	case NormL2:
		return "l2"
	case NormNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseNorm returns the Norm named s ("l2" or "none").
func ParseNorm(s string) (Norm, error) {
	switch strings.ToLower(s) {
	case "l2", "":
		return NormL2, nil
	case "none":
		return NormNone, nil
	default:
		return 0, errs.Configf("tfidf.ParseNorm", "norm=%s is unsupported", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n Norm) MarshalText() ([]byte, error) {
	if n.String() == "unknown" {
		return nil, errs.Configf("tfidf.Norm", "norm %d is unsupported", int(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Norm) UnmarshalText(text []byte) error {
	parsed, err := ParseNorm(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Options configures a Transformer.
type Options struct {
	Norm        Norm `json:"norm" yaml:"norm"`
	UseIDF      bool `json:"use_idf" yaml:"useIdf"`
	SmoothIDF   bool `json:"smooth_idf" yaml:"smoothIdf"`
	SublinearTF bool `json:"sublinear_tf" yaml:"sublinearTf"`
}

// DefaultOptions returns L2-normalized, smoothed TF-IDF options.
func DefaultOptions() Options {
	return Options{Norm: NormL2, UseIDF: true, SmoothIDF: true}
}

// Transformer applies TF-IDF weights to count matrices.
//
// Fit and Transform may be called concurrently; a failed Fit keeps the
// previously learned frequencies.
type Transformer struct {
	opts Options

	mu    sync.RWMutex
	df    []int     // documents with a nonzero entry, per column
	idf   []float64 // nil before Fit
	nDocs int
}

// NewTransformer validates opts and returns an unfitted transformer.
func NewTransformer(opts Options) (*Transformer, error) {
	if opts.Norm.String() == "unknown" {
		return nil, errs.Configf("tfidf.NewTransformer", "norm %d is unsupported", int(opts.Norm))
	}
	return &Transformer{opts: opts}, nil
}

// Options returns the construction options.
func (t *Transformer) Options() Options {
	return t.opts
}

// Fit learns the document frequency of every column of counts.
func (t *Transformer) Fit(counts *sparse.Matrix) error {
	const op = "Transformer.Fit"
	if counts == nil {
		return errs.Inputf(op, "matrix is nil")
	}
	if counts.Rows() == 0 {
		return errs.Inputf(op, "cannot fit on a matrix without rows")
	}

	df := make([]int, counts.Cols())
	for _, col := range counts.Indices() {
		df[col]++
	}
	t.swap(df, counts.Rows())
	return nil
}

// Transform weights counts with the learned IDF and normalizes the rows.
func (t *Transformer) Transform(counts *sparse.Matrix) (*sparse.Matrix, error) {
	const op = "Transformer.Transform"
	t.mu.RLock()
	idf := t.idf
	t.mu.RUnlock()
	if idf == nil {
		return nil, errs.NotFitted(op)
	}
	if counts == nil {
		return nil, errs.Inputf(op, "matrix is nil")
	}
	if counts.Cols() != len(idf) {
		return nil, errs.Inputf(op, "matrix has %d columns, transformer was fitted on %d", counts.Cols(), len(idf))
	}

	weighted := counts.Map(func(e sparse.Entry) float64 {
		tf := e.Value
		if t.opts.SublinearTF {
			tf = math.Copysign(1+math.Log(math.Abs(tf)), tf)
		}
		if t.opts.UseIDF {
			tf *= idf[e.Col]
		}
		return tf
	})
	if t.opts.Norm == NormL2 {
		weighted = normalize(weighted)
	}
	return weighted, nil
}

// FitTransform fits on counts and transforms them.
func (t *Transformer) FitTransform(counts *sparse.Matrix) (*sparse.Matrix, error) {
	if err := t.Fit(counts); err != nil {
		return nil, err
	}
	return t.Transform(counts)
}

// Fitted reports whether document frequencies are available.
func (t *Transformer) Fitted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.idf != nil
}

// IDF returns a copy of the per-column inverse document frequencies, nil
// before Fit.
func (t *Transformer) IDF() []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.idf)
}

// DocumentFrequency returns a copy of the per-column document frequencies.
func (t *Transformer) DocumentFrequency() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.df)
}

// NDocuments returns the number of documents seen by Fit.
func (t *Transformer) NDocuments() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nDocs
}

func (t *Transformer) swap(df []int, nDocs int) {
	idf := make([]float64, len(df))
	for col, f := range df {
		idf[col] = inverseFrequency(nDocs, f, t.opts.SmoothIDF)
	}

	t.mu.Lock()
	t.df, t.idf, t.nDocs = df, idf, nDocs
	t.mu.Unlock()
	slog.Debug("TF-IDF transformer fitted", "documents", nDocs, "features", len(df))
}

// inverseFrequency computes the IDF of a term found in df of n documents.
func inverseFrequency(n, df int, smooth bool) float64 {
	if smooth {
		return math.Log(float64(n+1)/float64(df+1)) + 1
	}
	return math.Log(float64(n)/float64(max(df, 1))) + 1
}

// normalize scales each row of m to unit L2 norm.
func normalize(m *sparse.Matrix) *sparse.Matrix {
	norms := make([]float64, m.Rows())
	for r := range norms {
		norms[r] = m.RowNorm(r)
	}
	return m.Map(func(e sparse.Entry) float64 {
		return e.Value / norms[e.Row]
	})
}
