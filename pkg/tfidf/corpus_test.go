package tfidf

import (
	"math"
	"testing"

	"github.com/chriscorrea/textvec/pkg/vectorize"
)

func newCorpus(t *testing.T, docs []string) *Corpus {
	t.Helper()
	c, err := NewCorpus(docs, vectorize.DefaultOptions(), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCorpus() error = %v", err)
	}
	return c
}

func TestNewCorpus(t *testing.T) {
	tests := []struct {
		name      string
		documents []string
		wantDocs  int
	}{
		{
			name:      "empty corpus",
			documents: []string{},
			wantDocs:  0,
		},
		{
			name:      "single document",
			documents: []string{"hello world"},
			wantDocs:  1,
		},
		{
			name:      "multiple documents",
			documents: []string{"hello world", "goodbye world", "hello goodbye"},
			wantDocs:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := newCorpus(t, tt.documents)
			if corpus.Len() != tt.wantDocs {
				t.Errorf("NewCorpus() document count = %d, want %d", corpus.Len(), tt.wantDocs)
			}
			if tt.wantDocs == 0 && corpus.Matrix() != nil {
				t.Errorf("empty corpus should have no matrix")
			}
			if tt.wantDocs > 0 && corpus.Matrix().Rows() != tt.wantDocs {
				t.Errorf("Matrix() rows = %d, want %d", corpus.Matrix().Rows(), tt.wantDocs)
			}
		})
	}
}

func TestCorpusScore(t *testing.T) {
	corpus := newCorpus(t, documents)

	tests := []struct {
		name     string
		query    string
		docIndex int
		wantZero bool
	}{
		{name: "valid query and document", query: "brown fox", docIndex: 0},
		{name: "query with no matches", query: "elephant", docIndex: 0, wantZero: true},
		{name: "empty query", query: "", docIndex: 0, wantZero: true},
		{name: "invalid document index", query: "brown", docIndex: 10, wantZero: true},
		{name: "negative document index", query: "brown", docIndex: -1, wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := corpus.Score(tt.query, tt.docIndex)
			if tt.wantZero && score != 0 {
				t.Errorf("Score() = %f, want 0", score)
			}
			if !tt.wantZero && score == 0 {
				t.Errorf("Score() = 0, want non-zero")
			}
			if score < 0 || score > 1+epsilon {
				t.Errorf("Score() = %f, want a cosine in [0, 1]", score)
			}
		})
	}

	if got := newCorpus(t, nil).Score("brown", 0); got != 0 {
		t.Errorf("empty corpus Score() = %f, want 0", got)
	}
}

func TestCorpusRank(t *testing.T) {
	corpus := newCorpus(t, []string{
		"artificial intelligence and machine learning are new old technology",
		"machine learning algorithms require large datasets for training",
		"deep learning is a subset of machine learning using neural networks",
		"artificial intelligence companies are investing heavily in AGI myths",
	})

	tests := []struct {
		query       string
		k           int
		expectFirst int
		wantLen     int
	}{
		{query: "neural networks", expectFirst: 2, wantLen: 1},
		{query: "datasets training", expectFirst: 1, wantLen: 1},
		{query: "machine learning", k: 2, expectFirst: 2, wantLen: 2},
		{query: "artificial intelligence", expectFirst: 0, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := corpus.Rank(tt.query, tt.k)
			if len(results) != tt.wantLen {
				t.Fatalf("Rank() returned %d results, want %d: %+v", len(results), tt.wantLen, results)
			}
			if results[0].Index != tt.expectFirst {
				t.Errorf("Rank(%q) first = %d, want %d (%+v)", tt.query, results[0].Index, tt.expectFirst, results)
			}
			for i := 1; i < len(results); i++ {
				if results[i].Score > results[i-1].Score {
					t.Errorf("results not sorted: %+v", results)
				}
			}
			if got := corpus.Score(tt.query, results[0].Index); math.Abs(got-results[0].Score) > epsilon {
				t.Errorf("Score() = %f, Rank() score = %f", got, results[0].Score)
			}
		})
	}

	if got := corpus.Rank("zebra", 0); got != nil {
		t.Errorf("Rank() of an unknown term = %+v, want nil", got)
	}
}
