package vectorize

import (
	"log/slog"

	"github.com/cespare/xxhash/v2"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/sparse"
	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// signSeed seeds the second hash that decides a term's sign.
const signSeed = 0x9e3779b97f4a7c15

// HashingVectorizer maps terms to columns with the hashing trick.
//
// A term lands in column xxhash64(term) mod NFeatures and contributes +1 or -1
// depending on the top bit of a second, seeded hash, so colliding terms tend to
// cancel instead of piling up. Columns whose contributions sum to zero are not
// stored. The vectorizer has no learned state and is safe for concurrent use.
type HashingVectorizer struct {
	opts     Options
	analyzer *tokenize.Analyzer
}

// NewHashingVectorizer validates opts and returns the vectorizer.
func NewHashingVectorizer(opts Options) (*HashingVectorizer, error) {
	const op = "vectorize.NewHashingVectorizer"
	if opts.NFeatures <= 0 {
		return nil, errs.Configf(op, "n_features=%d must be positive", opts.NFeatures)
	}
	if err := opts.validate(op); err != nil {
		return nil, err
	}
	a, err := opts.analyzer()
	if err != nil {
		return nil, err
	}
	return &HashingVectorizer{opts: opts, analyzer: a}, nil
}

// Options returns the construction options.
func (v *HashingVectorizer) Options() Options {
	return v.opts
}

// NFeatures returns the number of columns.
func (v *HashingVectorizer) NFeatures() int {
	return v.opts.NFeatures
}

// Fit does nothing: the hashing space is fixed at construction. It exists so
// the vectorizer satisfies Vectorizer.
func (v *HashingVectorizer) Fit(corpus []string) error {
	return nil
}

// Transform hashes the terms of every document.
func (v *HashingVectorizer) Transform(corpus []string) (*sparse.Matrix, error) {
	rows := mapDocuments(corpus, v.opts.jobs(), v.row)
	m := sparse.FromRows(v.opts.NFeatures, rows)
	if v.opts.Binary {
		m = m.Binarize()
	}
	slog.Debug("Hashing vectorizer transformed corpus", "documents", m.Rows(), "features", m.Cols(), "nnz", m.NNZ())
	return m, nil
}

// FitTransform is Transform.
func (v *HashingVectorizer) FitTransform(corpus []string) (*sparse.Matrix, error) {
	return v.Transform(corpus)
}

// Bucket returns the column and sign of term.
func (v *HashingVectorizer) Bucket(term string) (int, float64) {
	return bucket(xxhash.NewWithSeed(signSeed), term, v.opts.NFeatures)
}

func (v *HashingVectorizer) row(doc string) map[int]float64 {
	row := make(map[int]float64)
	d := xxhash.NewWithSeed(signSeed)
	for tok := range v.analyzer.Tokenize(doc) {
		col, sign := bucket(d, tok, v.opts.NFeatures)
		row[col] += sign
	}
	return row
}

// bucket hashes term into [0, n) and derives its sign from d, which is reset
// before use.
func bucket(d *xxhash.Digest, term string, n int) (int, float64) {
	col := int(xxhash.Sum64String(term) % uint64(n))
	d.ResetWithSeed(signSeed)
	_, _ = d.WriteString(term)
	if d.Sum64()>>63 == 1 {
		return col, -1
	}
	return col, 1
}
