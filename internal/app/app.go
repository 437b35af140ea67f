// Package app contains the command logic of the textvec CLI, separated from
// flag parsing. Every command loads its inputs, runs one part of the text
// analysis engine and renders the result as a table, plain text or JSON.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chriscorrea/textvec/internal/config"
	"github.com/chriscorrea/textvec/pkg/errs"
)

// OutputFormat defines the output format for results
type OutputFormat int

const (
	// Table renders rounded tables (default)
	Table OutputFormat = iota
	// Text renders plain, pipe-friendly text
	Text
	// JSON renders indented JSON
	JSON
)

// String returns the string representation of the output
func (f OutputFormat) String() string {
	switch f {
	case Table:
		return "table"
	case Text:
		return "text"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseOutputFormat returns the OutputFormat named s; "" selects Table.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return Table, nil
	case "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Table, errs.Configf("app.ParseOutputFormat", "output format %q is unsupported", s)
	}
}

// Command names a textvec operation.
type Command int

const (
	// Tokenize prints the analyzed tokens of every document
	Tokenize Command = iota
	// Vectorize prints the document-term matrix
	Vectorize
	// Rank orders documents by TF-IDF similarity to a query
	Rank
	// Stem prints the stem of every word
	Stem
	// Similarity scores a pair of strings
	Similarity
	// Inspect prints corpus statistics
	Inspect
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case Tokenize:
		return "tokenize"
	case Vectorize:
		return "vectorize"
	case Rank:
		return "rank"
	case Stem:
		return "stem"
	case Similarity:
		return "similarity"
	case Inspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// Config holds everything one command invocation needs.
type Config struct {
	Command  Command
	Settings *config.Config // pipeline settings after file, env and flags
	Format   OutputFormat

	Sources []string // URLs, file paths, or "-" for stdin
	Query   string   // rank
	Words   []string // stem; also the pair compared by similarity

	SavePath string // vectorize: write a snapshot of the fitted vectorizer
	LoadPath string // vectorize: transform with a saved vectorizer instead of fitting

	Quiet bool      // suppress warnings and the spinner
	Stdin io.Reader // os.Stdin when nil
	Log   io.Writer // warnings and spinner, os.Stderr when nil
}

func (c Config) stderr() io.Writer {
	if c.Log == nil {
		return os.Stderr
	}
	return c.Log
}

// warn prints a warning unless the run is quiet.
func (c Config) warn(format string, args ...any) {
	if !c.Quiet {
		fmt.Fprintf(c.stderr(), "Warning: "+format+"\n", args...)
	}
}

// Run executes one command and returns its rendered output.
//
// ctx allows for cancellation and timeout control of source fetching.
func Run(ctx context.Context, cfg Config) (string, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	if err := cfg.Settings.Validate(); err != nil {
		return "", err
	}

	var (
		r   report
		err error
	)
	switch cfg.Command {
	case Tokenize:
		r, err = runTokenize(ctx, cfg)
	case Vectorize:
		r, err = runVectorize(ctx, cfg)
	case Rank:
		r, err = runRank(ctx, cfg)
	case Stem:
		r, err = runStem(cfg)
	case Similarity:
		r, err = runSimilarity(cfg)
	case Inspect:
		r, err = runInspect(ctx, cfg)
	default:
		return "", errs.Configf("app.Run", "command %d is unsupported", int(cfg.Command))
	}
	if err != nil {
		return "", err
	}
	return render(r, cfg.Format)
}
