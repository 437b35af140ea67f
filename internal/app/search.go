package app

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/chriscorrea/bm25md"

	"github.com/chriscorrea/textvec/pkg/tfidf"
)

// rankBM25 scores documents against query with BM25md field-weighted ranking.
// Documents are parsed as markdown, so headings and emphasis weigh more when
// sources are extracted with the markdown format. Like tfidf.Corpus.Rank it
// keeps positive scores only, best first, and k <= 0 returns every match.
func rankBM25(documents []string, query string, k int) []tfidf.Result {
	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()
	for i, doc := range documents {
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(doc),
			Original: doc,
		})
	}

	var results []tfidf.Result
	for i, doc := range documents {
		if score := corpus.Score(query, i); score > 0 {
			results = append(results, tfidf.Result{Index: i, Score: score, Document: doc})
		}
	}
	slices.SortStableFunc(results, func(a, b tfidf.Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	slog.Debug("BM25 ranking complete", "documents", len(documents), "matches", len(results))
	return results
}
