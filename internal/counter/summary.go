package counter

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates one counting method over a corpus.
type Summary struct {
	Method string  `json:"method"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Summarize counts every document with c. An empty corpus gives a zero
// Summary carrying only the method name.
func Summarize(docs []string, c Counter) Summary {
	s := Summary{Method: c.Name()}
	if len(docs) == 0 {
		return s
	}

	counts := make([]int, len(docs))
	values := make([]float64, len(docs))
	for i, doc := range docs {
		counts[i] = c.Count(doc)
		values[i] = float64(counts[i])
		s.Total += counts[i]
	}

	s.Min, s.Max = slices.Min(counts), slices.Max(counts)
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	slog.Debug("Summarized corpus", "method", s.Method, "documents", len(docs), "total", s.Total)
	return s
}
