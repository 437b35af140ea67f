package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/chriscorrea/textvec/internal/chunk"
	"github.com/chriscorrea/textvec/internal/classify"
	"github.com/chriscorrea/textvec/internal/config"
	"github.com/chriscorrea/textvec/internal/extract"
	"github.com/chriscorrea/textvec/internal/fetch"
	"github.com/chriscorrea/textvec/internal/spinner"
	"github.com/chriscorrea/textvec/pkg/errs"
)

// Document is one unit of a corpus: a whole source or a part of it.
type Document struct {
	Source string `json:"source"`
	Part   int    `json:"part"` // position within the source
	Text   string `json:"text"`
}

// Label identifies the document in output, e.g. "notes.txt#3".
func (d Document) Label() string {
	if d.Part == 0 {
		return d.Source
	}
	return fmt.Sprintf("%s#%d", d.Source, d.Part)
}

func texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

// loadDocuments reads every source, reduces HTML to text and splits each
// source into documents. Sources that fail are reported and skipped; it is an
// error when no document remains.
func loadDocuments(ctx context.Context, cfg Config) ([]Document, error) {
	sources := cfg.Sources
	if len(sources) == 0 {
		sources = []string{"-"}
	}
	in := cfg.Settings.Input

	var classifier *classify.Classifier
	if in.DropBoilerplate {
		var err error
		if classifier, err = classify.NewClassifier(); err != nil {
			return nil, err
		}
	}

	f := fetch.New(fetch.Options{Timeout: in.Timeout, Stdin: cfg.Stdin})
	var docs []Document
	err := withSpinner(ctx, cfg, "Loading sources", func(sp *spinner.Spinner) error {
		for i, source := range sources {
			sp.UpdateMessage("Loading " + source)
			sp.Progress(i, len(sources))
			text, err := loadSource(ctx, f, source, in)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				cfg.warn("failed to process source %q: %v", source, err)
				continue
			}

			parts := chunk.Split(text, in.Split, in.ChunkSize)
			if classifier != nil {
				parts = classifier.Filter(parts)
			}
			for p, part := range parts {
				d := Document{Source: source, Text: part}
				if in.Split != chunk.None {
					d.Part = p + 1
				}
				docs = append(docs, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errs.Inputf("app.loadDocuments", "no content extracted from any source")
	}

	slog.Debug("Loaded documents", "sources", len(sources), "documents", len(docs))
	return docs, nil
}

// loadSource returns the text of one source, extracting HTML.
func loadSource(ctx context.Context, f *fetch.Fetcher, source string, in config.InputConfig) (string, error) {
	data, err := f.ReadAll(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content: %w", err)
	}
	if !extract.IsHTML(data) {
		return strings.ToValidUTF8(string(data), " "), nil
	}

	var baseURL *url.URL
	if fetch.IsURL(source) {
		baseURL, _ = url.Parse(source) // nil when unparsable
	}
	text, err := extract.Extract(bytes.NewReader(data), extract.Options{
		Selector:   in.Selector,
		IncludeAll: in.IncludeAll,
		Format:     in.Extract,
		BaseURL:    baseURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content extracted")
	}
	return text, nil
}

// withSpinner runs fn behind a spinner unless the run is quiet.
func withSpinner(ctx context.Context, cfg Config, message string, fn func(*spinner.Spinner) error) error {
	if cfg.Quiet {
		return fn(spinner.New(ctx, cfg.stderr(), message))
	}
	return spinner.Run(ctx, cfg.stderr(), message, fn)
}
