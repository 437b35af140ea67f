package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/textvec/internal/chunk"
	"github.com/chriscorrea/textvec/internal/config"
	"github.com/chriscorrea/textvec/pkg/errs"
)

const corpus = `The cat sat on the mat.

The dog chased the cat.

Birds sing in the morning.`

// run executes a command over corpus, split into paragraphs.
func run(t *testing.T, cfg Config) (string, error) {
	t.Helper()
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
		cfg.Settings.Input.Split = chunk.Paragraph
	}
	if cfg.Stdin == nil {
		cfg.Stdin = strings.NewReader(corpus)
	}
	cfg.Quiet = true
	return Run(context.Background(), cfg)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", Table, false},
		{"table", Table, false},
		{"TEXT", Text, false},
		{"txt", Text, false},
		{"json", JSON, false},
		{"yaml", Table, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRunTokenize(t *testing.T) {
	out, err := run(t, Config{Command: Tokenize, Format: Text})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "the cat sat on the mat\nthe dog chased the cat\nbirds sing in the morning\n"
	if out != want {
		t.Errorf("Run() = %q, want %q", out, want)
	}
}

func TestRunTokenizeStopWordsAndStemming(t *testing.T) {
	settings := config.Default()
	settings.Vectorizer.Options.Tokenizer.StopWords = []string{"the", "on", "in"}
	settings.Vectorizer.Options.Stem = "english"

	out, err := run(t, Config{Command: Tokenize, Format: Text, Settings: settings, Stdin: strings.NewReader("The birds were singing in the mornings")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := strings.TrimSpace(out), "bird were sing morn"; got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}
}

func TestRunVectorize(t *testing.T) {
	out, err := run(t, Config{Command: Vectorize, Format: JSON})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got struct {
		Kind      string   `json:"kind"`
		Rows      int      `json:"rows"`
		Cols      int      `json:"cols"`
		Documents []string `json:"documents"`
		Entries   []struct {
			Row     int     `json:"row"`
			Feature string  `json:"feature"`
			Value   float64 `json:"value"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Kind != "count" || got.Rows != 3 {
		t.Errorf("kind = %q rows = %d, want count and 3", got.Kind, got.Rows)
	}
	// the, cat, sat, on, mat, dog, chased, birds, sing, in, morning
	if got.Cols != 11 {
		t.Errorf("cols = %d, want 11", got.Cols)
	}
	if got.Documents[1] != "-#2" {
		t.Errorf("documents[1] = %q, want -#2", got.Documents[1])
	}
	for _, e := range got.Entries {
		if e.Row == 0 && e.Feature == "the" && e.Value != 2 {
			t.Errorf("count of 'the' in document 0 = %v, want 2", e.Value)
		}
	}
}

func TestRunVectorizeLimit(t *testing.T) {
	settings := config.Default()
	settings.Output.Limit = 3

	out, err := run(t, Config{Command: Vectorize, Format: Text, Settings: settings})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 3 {
		t.Errorf("got %d lines, want 3:\n%s", len(lines), out)
	}
}

func TestRunVectorizeSaveLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*config.Config)
	}{
		{"count", func(*config.Config) {}},
		{"tfidf", func(c *config.Config) { c.TFIDF.Enabled = true }},
		{"hashing", func(c *config.Config) {
			c.Vectorizer.Kind = config.KindHashing
			c.Vectorizer.Options.NFeatures = 64
		}},
		{"tfidf over hashing", func(c *config.Config) {
			c.Vectorizer.Kind = config.KindHashing
			c.Vectorizer.Options.NFeatures = 64
			c.TFIDF.Enabled = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.Default()
			tt.setup(settings)
			path := filepath.Join(t.TempDir(), "model.json")

			fitted, err := run(t, Config{Command: Vectorize, Format: Text, Settings: settings, SavePath: path})
			if err != nil {
				t.Fatalf("fitting run error = %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("snapshot not written: %v", err)
			}

			// loaded settings are ignored in favour of the snapshot
			loaded, err := run(t, Config{Command: Vectorize, Format: Text, Settings: config.Default(), LoadPath: path})
			if err != nil {
				t.Fatalf("loading run error = %v", err)
			}
			if fitted != loaded {
				t.Errorf("loaded vectorizer output differs\nfitted:\n%s\nloaded:\n%s", fitted, loaded)
			}
		})
	}
}

func TestRunVectorizeLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "unknown.json")
	if err := os.WriteFile(unknown, []byte(`{"version":1,"kind":"bm25"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{garbage, unknown} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := run(t, Config{Command: Vectorize, LoadPath: path})
			if !errs.IsInput(err) {
				t.Errorf("Run() error = %v, want an input error", err)
			}
		})
	}

	if _, err := run(t, Config{Command: Vectorize, LoadPath: filepath.Join(dir, "missing.json")}); err == nil {
		t.Error("Run() with a missing snapshot succeeded")
	}
}

func TestRunRank(t *testing.T) {
	out, err := run(t, Config{Command: Rank, Format: JSON, Query: "cat"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got rankReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got.Results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(got.Results), got.Results)
	}
	for i, res := range got.Results {
		if res.Rank != i+1 || res.Score <= 0 {
			t.Errorf("result %d = %+v", i, res)
		}
	}
	if got.Results[0].Score < got.Results[1].Score {
		t.Errorf("results are not ordered by score: %+v", got.Results)
	}

	if _, err := run(t, Config{Command: Rank, Query: "  "}); !errs.IsInput(err) {
		t.Errorf("empty query error = %v, want an input error", err)
	}
}

func TestRunRankBM25(t *testing.T) {
	settings := config.Default()
	settings.Input.Split = chunk.Paragraph
	settings.Rank.Scorer = config.ScorerBM25

	out, err := run(t, Config{Command: Rank, Format: JSON, Settings: settings, Query: "dog"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var got rankReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Scorer != config.ScorerBM25 {
		t.Errorf("scorer = %q, want bm25", got.Scorer)
	}
	if len(got.Results) != 1 || got.Results[0].Document != "-#2" || got.Results[0].Score <= 0 {
		t.Errorf("results = %+v, want only -#2 with a positive score", got.Results)
	}
}

func TestRankBM25(t *testing.T) {
	docs := []string{
		"# Gardening\n\nTomatoes need sun.",
		"Tomatoes and basil grow well together. Tomatoes like warmth.",
		"Bread recipes use flour.",
		"Violins have four strings.",
		"Rivers flow to the sea.",
	}
	tests := []struct {
		name  string
		query string
		k     int
		want  int
	}{
		{"matches only", "tomatoes", 0, 2},
		{"limited", "tomatoes", 1, 1},
		{"no match", "piano", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := rankBM25(docs, tt.query, tt.k)
			if len(results) != tt.want {
				t.Fatalf("rankBM25(%q) returned %d results, want %d", tt.query, len(results), tt.want)
			}
			for i, res := range results {
				if res.Index > 1 {
					t.Errorf("result %d is the unrelated document", i)
				}
				if i > 0 && results[i-1].Score < res.Score {
					t.Errorf("results are not ordered by score: %+v", results)
				}
			}
		})
	}
}

func TestRunStem(t *testing.T) {
	out, err := run(t, Config{Command: Stem, Format: Text, Words: []string{"running", "cats"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "run\ncat\n" {
		t.Errorf("Run() = %q, want %q", out, "run\ncat\n")
	}

	if _, err := run(t, Config{Command: Stem}); !errs.IsInput(err) {
		t.Errorf("no words error = %v, want an input error", err)
	}

	settings := config.Default()
	settings.Vectorizer.Options.Stem = "klingon"
	if _, err := run(t, Config{Command: Stem, Settings: settings, Words: []string{"x"}}); !errs.IsConfiguration(err) {
		t.Errorf("bad language error = %v, want a configuration error", err)
	}
}

func TestRunSimilarity(t *testing.T) {
	tests := []struct {
		metric string
		a, b   string
		want   string
	}{
		{config.MetricJaroWinkler, "martha", "marhta", "0.9611"},
		{config.MetricJaro, "martha", "marhta", "0.9444"},
		{config.MetricDice, "night", "nacht", "0.2500"},
		{config.MetricEdit, "kitten", "sitting", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			settings := config.Default()
			settings.Similarity.Metric = tt.metric
			out, err := run(t, Config{Command: Similarity, Format: Text, Settings: settings, Words: []string{tt.a, tt.b}})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("Run() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := run(t, Config{Command: Similarity, Words: []string{"one"}}); !errs.IsInput(err) {
		t.Errorf("single word error = %v, want an input error", err)
	}
}

func TestRunInspect(t *testing.T) {
	out, err := run(t, Config{Command: Inspect, Format: JSON})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got inspectReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Sources != 1 || got.Documents != 3 || got.Vocabulary != 11 {
		t.Errorf("sources = %d documents = %d vocabulary = %d, want 1, 3, 11", got.Sources, got.Documents, got.Vocabulary)
	}
	if len(got.TopTerms) == 0 || got.TopTerms[0].Term != "the" || got.TopTerms[0].Count != 5 {
		t.Errorf("top term = %+v, want the (5)", got.TopTerms)
	}
	if got.Density <= 0 || got.Density > 1 {
		t.Errorf("density = %v, want within (0, 1]", got.Density)
	}
}

func TestRunSources(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	html := filepath.Join(dir, "page.html")
	if err := os.WriteFile(first, []byte("apples and pears"), 0o644); err != nil {
		t.Fatal(err)
	}
	page := `<html><body><nav>Menu</nav><article><h1>Title</h1><p>Oranges grow in warm climates.</p></article></body></html>`
	if err := os.WriteFile(html, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	settings := config.Default()
	settings.Input.Selector = "article"
	out, err := run(t, Config{Command: Tokenize, Format: Text, Settings: settings, Sources: []string{first, filepath.Join(dir, "missing.txt"), html}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d documents, want 2 (missing source skipped):\n%s", len(lines), out)
	}
	if lines[0] != "apples and pears" {
		t.Errorf("first document = %q", lines[0])
	}
	if strings.Contains(lines[1], "menu") || !strings.Contains(lines[1], "oranges grow in warm climates") {
		t.Errorf("html document = %q", lines[1])
	}
}

func TestRunNoContent(t *testing.T) {
	_, err := run(t, Config{Command: Tokenize, Stdin: strings.NewReader("   \n\n  ")})
	if !errs.IsInput(err) {
		t.Errorf("Run() error = %v, want an input error", err)
	}
}

func TestRunInvalidSettings(t *testing.T) {
	settings := config.Default()
	settings.Vectorizer.Kind = "bm25"
	_, err := Run(context.Background(), Config{Command: Tokenize, Settings: settings})
	if !errs.IsConfiguration(err) {
		t.Errorf("Run() error = %v, want a configuration error", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Command: Tokenize, Sources: []string{"https://example.invalid/"}, Quiet: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRenderTable(t *testing.T) {
	r := stemReport{Language: "english", Stems: []stemPair{{"running", "run"}}}
	out, err := render(r, Table)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	for _, want := range []string{"╭", "WORD", "STEM", "running", "run"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptyText(t *testing.T) {
	out, err := render(rankReport{Query: "x", Results: []rankResult{}}, Text)
	if err != nil || out != "" {
		t.Errorf("render() = %q, %v, want empty output", out, err)
	}
}

func TestEllipsize(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"multi\n  line   text", 20, "multi line text"},
		{"abcdefghij", 5, "abcd…"},
	}
	for _, tt := range tests {
		if got := ellipsize(tt.in, tt.n); got != tt.want {
			t.Errorf("ellipsize(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
