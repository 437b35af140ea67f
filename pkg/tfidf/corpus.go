package tfidf

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/chriscorrea/textvec/pkg/sparse"
	"github.com/chriscorrea/textvec/pkg/vectorize"
)

// Corpus holds documents and their pre-calculated TF-IDF rows for querying.
type Corpus struct {
	documents  []string
	vectorizer *Vectorizer
	matrix     *sparse.Matrix // nil for an empty corpus
}

// Result is one ranked document.
type Result struct {
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Document string  `json:"document"`
}

// NewCorpus fits a TF-IDF vectorizer on documents and weights every document
// once, so that subsequent queries only analyze the query text.
//
// An empty collection yields a corpus that scores every query as 0.
func NewCorpus(documents []string, countOpts vectorize.Options, opts Options) (*Corpus, error) {
	v, err := NewVectorizer(countOpts, opts)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		slog.Debug("Empty document collection provided")
		return &Corpus{vectorizer: v}, nil
	}

	slog.Debug("Creating TF-IDF corpus", "documentCount", len(documents))
	m, err := v.FitTransform(documents)
	if err != nil {
		return nil, err
	}
	slog.Debug("TF-IDF corpus created", "terms", m.Cols(), "documents", m.Rows())
	return &Corpus{documents: slices.Clone(documents), vectorizer: v, matrix: m}, nil
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.documents)
}

// Document returns the i-th document.
func (c *Corpus) Document(i int) string {
	return c.documents[i]
}

// Matrix returns the TF-IDF matrix of the corpus, nil when it is empty.
func (c *Corpus) Matrix() *sparse.Matrix {
	return c.matrix
}

// Vectorizer returns the fitted vectorizer.
func (c *Corpus) Vectorizer() *Vectorizer {
	return c.vectorizer
}

// Score calculates the relevance of query to the document at docIndex as the
// dot product of their TF-IDF rows; with L2 normalization this is their
// cosine similarity.
//
// Invalid indexes and queries without known terms score 0.
func (c *Corpus) Score(query string, docIndex int) float64 {
	if docIndex < 0 || docIndex >= len(c.documents) {
		slog.Debug("Invalid document index", "docIndex", docIndex, "totalDocs", len(c.documents))
		return 0
	}
	q := c.query(query)
	if q == nil {
		return 0
	}
	score := c.matrix.Dot(docIndex, q, 0)
	slog.Debug("Document scoring completed", "docIndex", docIndex, "score", score)
	return score
}

// Rank returns up to k documents with a positive score for query, best
// first; ties keep corpus order. A k of 0 or less returns every match.
func (c *Corpus) Rank(query string, k int) []Result {
	q := c.query(query)
	if q == nil {
		return nil
	}

	var results []Result
	for i, doc := range c.documents {
		if score := c.matrix.Dot(i, q, 0); score > 0 {
			results = append(results, Result{Index: i, Score: score, Document: doc})
		}
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	slog.Debug("Ranked corpus", "matches", len(results), "k", k)
	return results
}

// query weights the query text, returning nil when nothing in it is known.
func (c *Corpus) query(query string) *sparse.Matrix {
	if c.matrix == nil {
		return nil
	}
	q, err := c.vectorizer.Transform([]string{query})
	if err != nil {
		slog.Debug("Failed to weight query", "error", err)
		return nil
	}
	if q.NNZ() == 0 {
		slog.Debug("Query has no terms in the corpus vocabulary")
		return nil
	}
	return q
}
