package app

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/chriscorrea/textvec/internal/config"
	"github.com/chriscorrea/textvec/internal/counter"
	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/similarity"
	"github.com/chriscorrea/textvec/pkg/sparse"
	"github.com/chriscorrea/textvec/pkg/stem"
	"github.com/chriscorrea/textvec/pkg/tfidf"
	"github.com/chriscorrea/textvec/pkg/vectorize"
)

const snippetLength = 60

// tokenize

type tokenReport struct {
	Documents []tokenDocument `json:"documents"`
}

type tokenDocument struct {
	Document string   `json:"document"`
	Tokens   []string `json:"tokens"`
}

func (r tokenReport) table() tableData {
	t := tableData{
		headers: []string{"Document", "Count", "Tokens"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
	}
	for _, d := range r.Documents {
		t.rows = append(t.rows, []string{d.Document, strconv.Itoa(len(d.Tokens)), ellipsize(strings.Join(d.Tokens, " "), snippetLength)})
	}
	return t
}

func (r tokenReport) text() string {
	lines := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		lines[i] = strings.Join(d.Tokens, " ")
	}
	return strings.Join(lines, "\n")
}

func runTokenize(ctx context.Context, cfg Config) (report, error) {
	docs, err := loadDocuments(ctx, cfg)
	if err != nil {
		return nil, err
	}
	v, err := vectorize.NewCountVectorizer(cfg.Settings.Vectorizer.Options)
	if err != nil {
		return nil, err
	}
	analyzer := v.Analyzer()

	r := tokenReport{Documents: make([]tokenDocument, len(docs))}
	for i, d := range docs {
		tokens := analyzer.Analyze(d.Text)
		if tokens == nil {
			tokens = []string{}
		}
		r.Documents[i] = tokenDocument{Document: d.Label(), Tokens: tokens}
	}
	return r, nil
}

// vectorize

type matrixReport struct {
	Kind      string        `json:"kind"`
	Rows      int           `json:"rows"`
	Cols      int           `json:"cols"`
	NNZ       int           `json:"nnz"`
	Documents []string      `json:"documents"`
	Entries   []matrixEntry `json:"entries"`
	Truncated bool          `json:"truncated,omitempty"`

	matrix *sparse.Matrix
}

type matrixEntry struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Feature string  `json:"feature,omitempty"`
	Value   float64 `json:"value"`
}

func (r matrixReport) table() tableData {
	t := tableData{
		headers: []string{"Document", "Col", "Feature", "Value"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
		footer:  fmt.Sprintf("%s matrix: %d x %d, %d stored values", r.Kind, r.Rows, r.Cols, r.NNZ),
	}
	for _, e := range r.Entries {
		t.rows = append(t.rows, []string{r.Documents[e.Row], strconv.Itoa(e.Col), e.Feature, formatFloat(e.Value)})
	}
	if r.Truncated {
		t.footer += fmt.Sprintf(" (showing %d)", len(r.Entries))
	}
	return t
}

func (r matrixReport) text() string {
	if !r.Truncated {
		return strings.TrimSuffix(r.matrix.String(), "\n")
	}
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = fmt.Sprintf("(%d, %d)\t%g", e.Row, e.Col, e.Value)
	}
	return strings.Join(lines, "\n")
}

// snapshotter is implemented by every vectorizer the CLI can save.
type snapshotter interface {
	vectorize.Vectorizer
	encode(*bytes.Buffer) error
}

type countModel struct{ *vectorize.CountVectorizer }

func (m countModel) encode(b *bytes.Buffer) error { return m.Snapshot().Encode(b) }

type hashingModel struct{ *vectorize.HashingVectorizer }

func (m hashingModel) encode(b *bytes.Buffer) error { return m.Snapshot().Encode(b) }

type tfidfModel struct{ *tfidf.Vectorizer }

func (m tfidfModel) encode(b *bytes.Buffer) error { return m.Snapshot().Encode(b) }

// newModel builds the vectorizer selected by the settings.
func newModel(s *config.Config) (snapshotter, string, error) {
	opts := s.Vectorizer.Options
	hashing := s.Vectorizer.Kind == config.KindHashing
	switch {
	case s.TFIDF.Enabled && hashing:
		v, err := tfidf.NewHashedVectorizer(opts, s.TFIDF.Options)
		if err != nil {
			return nil, "", err
		}
		return tfidfModel{v}, tfidf.KindTFIDF, nil
	case s.TFIDF.Enabled:
		v, err := tfidf.NewVectorizer(opts, s.TFIDF.Options)
		if err != nil {
			return nil, "", err
		}
		return tfidfModel{v}, tfidf.KindTFIDF, nil
	case hashing:
		v, err := vectorize.NewHashingVectorizer(opts)
		if err != nil {
			return nil, "", err
		}
		return hashingModel{v}, vectorize.KindHashing, nil
	default:
		v, err := vectorize.NewCountVectorizer(opts)
		if err != nil {
			return nil, "", err
		}
		return countModel{v}, vectorize.KindCount, nil
	}
}

// loadModel restores a vectorizer saved with --save.
func loadModel(path string) (snapshotter, string, error) {
	const op = "app.loadModel"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	var header struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, "", errs.Inputf(op, "failed to decode snapshot %s: %v", path, err)
	}

	if header.Kind == tfidf.KindTFIDF {
		s, err := tfidf.DecodeSnapshot(bytes.NewReader(data))
		if err != nil {
			return nil, "", err
		}
		v, err := tfidf.Restore(s)
		if err != nil {
			return nil, "", err
		}
		if !v.Fitted() {
			return nil, "", errs.Inputf(op, "snapshot %s holds an unfitted vectorizer", path)
		}
		return tfidfModel{v}, header.Kind, nil
	}

	s, err := vectorize.DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	restored, err := vectorize.Restore(s)
	if err != nil {
		return nil, "", err
	}
	switch v := restored.(type) {
	case *vectorize.CountVectorizer:
		if !v.Fitted() {
			return nil, "", errs.Inputf(op, "snapshot %s holds an unfitted vectorizer", path)
		}
		return countModel{v}, header.Kind, nil
	case *vectorize.HashingVectorizer:
		return hashingModel{v}, header.Kind, nil
	default:
		return nil, "", errs.Inputf(op, "snapshot kind %q is unsupported", header.Kind)
	}
}

func saveModel(path string, m snapshotter) error {
	var b bytes.Buffer
	if err := m.encode(&b); err != nil {
		return err
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	slog.Debug("Saved vectorizer snapshot", "path", path, "bytes", b.Len())
	return nil
}

// featureNames returns the column names of m, nil when columns are hashed.
func featureNames(m snapshotter) []string {
	switch v := m.(type) {
	case countModel:
		return v.FeatureNames()
	case tfidfModel:
		return v.FeatureNames()
	default:
		return nil
	}
}

func runVectorize(ctx context.Context, cfg Config) (report, error) {
	var (
		model snapshotter
		kind  string
		err   error
	)
	if cfg.LoadPath != "" {
		model, kind, err = loadModel(cfg.LoadPath)
	} else {
		model, kind, err = newModel(cfg.Settings)
	}
	if err != nil {
		return nil, err
	}

	docs, err := loadDocuments(ctx, cfg)
	if err != nil {
		return nil, err
	}
	corpus := texts(docs)

	var m *sparse.Matrix
	if cfg.LoadPath != "" {
		m, err = model.Transform(corpus)
	} else {
		m, err = model.FitTransform(corpus)
	}
	if err != nil {
		return nil, fmt.Errorf("vectorization failed: %w", err)
	}

	if cfg.SavePath != "" {
		if err := saveModel(cfg.SavePath, model); err != nil {
			return nil, err
		}
	}

	r := matrixReport{
		Kind:      kind,
		Rows:      m.Rows(),
		Cols:      m.Cols(),
		NNZ:       m.NNZ(),
		Documents: make([]string, len(docs)),
		Entries:   []matrixEntry{},
		matrix:    m,
	}
	for i, d := range docs {
		r.Documents[i] = d.Label()
	}
	names := featureNames(model)
	limit := cfg.Settings.Output.Limit
	for e := range m.All() {
		if limit > 0 && len(r.Entries) == limit {
			r.Truncated = true
			break
		}
		entry := matrixEntry{Row: e.Row, Col: e.Col, Value: e.Value}
		if names != nil {
			entry.Feature = names[e.Col]
		}
		r.Entries = append(r.Entries, entry)
	}
	return r, nil
}

// rank

type rankReport struct {
	Query   string       `json:"query"`
	Scorer  string       `json:"scorer"`
	Results []rankResult `json:"results"`
}

type rankResult struct {
	Rank     int     `json:"rank"`
	Document string  `json:"document"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

func (r rankReport) table() tableData {
	t := tableData{
		headers: []string{"Rank", "Document", "Score", "Text"},
		aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	}
	for _, res := range r.Results {
		t.rows = append(t.rows, []string{strconv.Itoa(res.Rank), res.Document, formatFloat(res.Score), ellipsize(res.Text, snippetLength)})
	}
	if len(r.Results) == 0 {
		t.footer = fmt.Sprintf("no document matches %q", r.Query)
	}
	return t
}

func (r rankReport) text() string {
	lines := make([]string, len(r.Results))
	for i, res := range r.Results {
		lines[i] = fmt.Sprintf("%s\t%s", formatFloat(res.Score), res.Document)
	}
	return strings.Join(lines, "\n")
}

func runRank(ctx context.Context, cfg Config) (report, error) {
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, errs.Inputf("app.runRank", "query is empty")
	}
	docs, err := loadDocuments(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := cfg.Settings
	corpus := texts(docs)

	var ranked []tfidf.Result
	switch s.Rank.Scorer {
	case config.ScorerBM25:
		ranked = rankBM25(corpus, cfg.Query, s.Output.Limit)
	default:
		c, err := tfidf.NewCorpus(corpus, s.Vectorizer.Options, s.TFIDF.Options)
		if err != nil {
			return nil, err
		}
		ranked = c.Rank(cfg.Query, s.Output.Limit)
	}

	r := rankReport{Query: cfg.Query, Scorer: s.Rank.Scorer, Results: []rankResult{}}
	for i, res := range ranked {
		r.Results = append(r.Results, rankResult{
			Rank:     i + 1,
			Document: docs[res.Index].Label(),
			Score:    res.Score,
			Text:     res.Document,
		})
	}
	return r, nil
}

// stem

type stemReport struct {
	Language string     `json:"language"`
	Stems    []stemPair `json:"stems"`
}

type stemPair struct {
	Word string `json:"word"`
	Stem string `json:"stem"`
}

func (r stemReport) table() tableData {
	t := tableData{headers: []string{"Word", "Stem"}}
	for _, p := range r.Stems {
		t.rows = append(t.rows, []string{p.Word, p.Stem})
	}
	return t
}

func (r stemReport) text() string {
	stems := make([]string, len(r.Stems))
	for i, p := range r.Stems {
		stems[i] = p.Stem
	}
	return strings.Join(stems, "\n")
}

func runStem(cfg Config) (report, error) {
	if len(cfg.Words) == 0 {
		return nil, errs.Inputf("app.runStem", "no words to stem")
	}
	s, err := stem.New(cfg.Settings.Vectorizer.Options.Stem)
	if err != nil {
		return nil, err
	}
	cached, err := stem.NewCached(s, 0)
	if err != nil {
		return nil, err
	}

	r := stemReport{Language: s.Language().String(), Stems: make([]stemPair, len(cfg.Words))}
	for i, w := range cfg.Words {
		r.Stems[i] = stemPair{Word: w, Stem: cached.Stem(w)}
	}
	return r, nil
}

// similarity

type similarityReport struct {
	Metric string  `json:"metric"`
	A      string  `json:"a"`
	B      string  `json:"b"`
	Score  float64 `json:"score"`
}

func (r similarityReport) table() tableData {
	return tableData{
		headers: []string{"Metric", "A", "B", "Score"},
		rows:    [][]string{{r.Metric, r.A, r.B, r.formatScore()}},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	}
}

func (r similarityReport) text() string {
	return r.formatScore()
}

func (r similarityReport) formatScore() string {
	if r.Metric == config.MetricEdit {
		return strconv.Itoa(int(r.Score))
	}
	return formatFloat(r.Score)
}

func runSimilarity(cfg Config) (report, error) {
	if len(cfg.Words) != 2 {
		return nil, errs.Inputf("app.runSimilarity", "similarity compares exactly 2 strings, got %d", len(cfg.Words))
	}
	a, b := cfg.Words[0], cfg.Words[1]
	s := cfg.Settings.Similarity

	r := similarityReport{Metric: s.Metric, A: a, B: b}
	switch s.Metric {
	case config.MetricDice:
		r.Score = similarity.DiceN(a, b, s.NGram)
	case config.MetricJaro:
		r.Score = similarity.Jaro(a, b)
	case config.MetricJaroWinkler:
		r.Score = similarity.JaroWinkler(a, b, s.PrefixScale, s.MaxPrefix)
	case config.MetricEdit:
		r.Score = float64(similarity.EditDistance(a, b, s.SubstitutionCost, s.Transpositions))
	default:
		return nil, errs.Configf("app.runSimilarity", "metric=%s is unsupported", s.Metric)
	}
	return r, nil
}

// inspect

type inspectReport struct {
	Sources    int               `json:"sources"`
	Documents  int               `json:"documents"`
	Counts     []counter.Summary `json:"counts"`
	Vocabulary int               `json:"vocabulary"`
	NNZ        int               `json:"nnz"`
	Density    float64           `json:"density"`
	TopTerms   []termFrequency   `json:"top_terms"`
}

type termFrequency struct {
	Term      string `json:"term"`
	Count     int    `json:"count"`
	Documents int    `json:"documents"`
}

const topTerms = 10

func (r inspectReport) table() tableData {
	t := tableData{
		headers: []string{"Statistic", "Total", "Mean", "Std Dev", "Min", "Max"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	}
	for _, s := range r.Counts {
		t.rows = append(t.rows, []string{
			s.Method, strconv.Itoa(s.Total), fmt.Sprintf("%.1f", s.Mean), fmt.Sprintf("%.1f", s.StdDev),
			strconv.Itoa(s.Min), strconv.Itoa(s.Max),
		})
	}

	terms := make([]string, len(r.TopTerms))
	for i, tf := range r.TopTerms {
		terms[i] = fmt.Sprintf("%s (%d)", tf.Term, tf.Count)
	}
	t.footer = fmt.Sprintf("%d documents from %d sources, vocabulary %d, %d stored values, density %s",
		r.Documents, r.Sources, r.Vocabulary, r.NNZ, formatFloat(r.Density))
	if len(terms) > 0 {
		t.footer += "\ntop terms: " + strings.Join(terms, ", ")
	}
	return t
}

func (r inspectReport) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sources\t%d\ndocuments\t%d\nvocabulary\t%d\nnnz\t%d\ndensity\t%s",
		r.Sources, r.Documents, r.Vocabulary, r.NNZ, formatFloat(r.Density))
	for _, s := range r.Counts {
		fmt.Fprintf(&b, "\n%s\t%d", s.Method, s.Total)
	}
	for _, tf := range r.TopTerms {
		fmt.Fprintf(&b, "\nterm\t%s\t%d", tf.Term, tf.Count)
	}
	return b.String()
}

func runInspect(ctx context.Context, cfg Config) (report, error) {
	docs, err := loadDocuments(ctx, cfg)
	if err != nil {
		return nil, err
	}
	corpus := texts(docs)

	r := inspectReport{Documents: len(docs), Counts: []counter.Summary{}, TopTerms: []termFrequency{}}
	seen := make(map[string]bool)
	for _, d := range docs {
		seen[d.Source] = true
	}
	r.Sources = len(seen)

	for _, method := range counter.Methods() {
		c, err := counter.NewCounter(method)
		if err != nil {
			cfg.warn("skipping %s count: %v", method, err)
			continue
		}
		r.Counts = append(r.Counts, counter.Summarize(corpus, c))
	}

	v, err := vectorize.NewCountVectorizer(cfg.Settings.Vectorizer.Options)
	if err != nil {
		return nil, err
	}
	m, err := v.FitTransform(corpus)
	if err != nil {
		return nil, fmt.Errorf("vectorization failed: %w", err)
	}
	r.Vocabulary = m.Cols()
	r.NNZ = m.NNZ()
	if cells := m.Rows() * m.Cols(); cells > 0 {
		r.Density = float64(r.NNZ) / float64(cells)
	}
	r.TopTerms = rankTerms(m, v.FeatureNames(), topTerms)
	return r, nil
}

// rankTerms returns the n terms with the highest total count, ties broken by
// term order.
func rankTerms(m *sparse.Matrix, names []string, n int) []termFrequency {
	totals := make([]termFrequency, len(names))
	for i, name := range names {
		totals[i].Term = name
	}
	for e := range m.All() {
		totals[e.Col].Count += int(e.Value)
		totals[e.Col].Documents++
	}
	slices.SortStableFunc(totals, func(a, b termFrequency) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
