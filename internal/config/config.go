// Package config loads textvec pipeline settings from an optional YAML file
// with TEXTVEC_* environment-variable overrides. Command-line flags are applied
// on top by the CLI.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/textvec/internal/chunk"
	"github.com/chriscorrea/textvec/internal/extract"
	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/similarity"
	"github.com/chriscorrea/textvec/pkg/stem"
	"github.com/chriscorrea/textvec/pkg/tfidf"
	"github.com/chriscorrea/textvec/pkg/vectorize"
)

// Vectorizer kinds.
const (
	KindCount   = "count"
	KindHashing = "hashing"
)

// Similarity metrics.
const (
	MetricDice        = "dice"
	MetricJaro        = "jaro"
	MetricJaroWinkler = "jaro-winkler"
	MetricEdit        = "edit"
)

// Rank scorers.
const (
	ScorerTFIDF = "tfidf"
	ScorerBM25  = "bm25"
)

// Config is the complete pipeline configuration.
type Config struct {
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	TFIDF      TFIDFConfig      `yaml:"tfidf"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Input      InputConfig      `yaml:"input"`
	Rank       RankConfig       `yaml:"rank"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// VectorizerConfig selects and configures the vectorizer.
type VectorizerConfig struct {
	Kind    string            `yaml:"kind"` // count or hashing
	Options vectorize.Options `yaml:",inline"`
}

// TFIDFConfig enables TF-IDF weighting on top of a count vectorizer.
type TFIDFConfig struct {
	Enabled bool          `yaml:"enabled"`
	Options tfidf.Options `yaml:",inline"`
}

// SimilarityConfig configures the similarity command.
type SimilarityConfig struct {
	Metric           string  `yaml:"metric"`
	NGram            int     `yaml:"ngram"` // dice only
	PrefixScale      float64 `yaml:"prefixScale"`
	MaxPrefix        int     `yaml:"maxPrefix"`
	SubstitutionCost int     `yaml:"substitutionCost"`
	Transpositions   bool    `yaml:"transpositions"`
}

// InputConfig controls how sources become documents.
type InputConfig struct {
	Split           chunk.Mode     `yaml:"split"`
	ChunkSize       int            `yaml:"chunkSize"`
	Selector        string         `yaml:"selector"`
	IncludeAll      bool           `yaml:"includeAll"`
	Extract         extract.Format `yaml:"extract"`
	DropBoilerplate bool           `yaml:"dropBoilerplate"`
	Timeout         time.Duration  `yaml:"timeout"`
}

// RankConfig selects how the rank command scores documents.
type RankConfig struct {
	Scorer string `yaml:"scorer"` // tfidf or bm25
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // table, text or json
	Limit  int    `yaml:"limit"`  // rows shown by rank and vectorize; 0 shows all
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Configf("config.Load", "parsing config file %s: %v", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	}
	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Vectorizer: VectorizerConfig{Kind: KindCount, Options: vectorize.DefaultOptions()},
		TFIDF:      TFIDFConfig{Options: tfidf.DefaultOptions()},
		Similarity: SimilarityConfig{
			Metric:           MetricJaroWinkler,
			NGram:            2,
			PrefixScale:      similarity.DefaultPrefixScale,
			MaxPrefix:        similarity.DefaultMaxPrefix,
			SubstitutionCost: 1,
		},
		Input: InputConfig{
			Split:     chunk.None,
			ChunkSize: chunk.DefaultChunkSize,
			Timeout:   30 * time.Second,
		},
		Rank:    RankConfig{Scorer: ScorerTFIDF},
		Output:  OutputConfig{Format: "table"},
		Logging: LoggingConfig{Level: "error", Format: "text"},
	}
}

// Validate checks the settings that are not validated by the components that
// consume them.
func (c *Config) Validate() error {
	const op = "config.Validate"
	switch c.Vectorizer.Kind {
	case KindCount, KindHashing:
	default:
		return errs.Configf(op, "vectorizer kind %q is unsupported", c.Vectorizer.Kind)
	}
	if err := c.Vectorizer.Options.Tokenizer.Validate(); err != nil {
		return err
	}
	if c.Vectorizer.Options.Stem != "" {
		if _, err := stem.ParseLanguage(c.Vectorizer.Options.Stem); err != nil {
			return err
		}
	}

	switch c.Similarity.Metric {
	case MetricDice, MetricJaro, MetricJaroWinkler, MetricEdit:
	default:
		return errs.Configf(op, "similarity metric %q is unsupported", c.Similarity.Metric)
	}
	if c.Similarity.NGram < 1 {
		return errs.Configf(op, "similarity ngram=%d must be at least 1", c.Similarity.NGram)
	}
	if c.Similarity.PrefixScale < 0 || c.Similarity.PrefixScale > 0.25 {
		return errs.Configf(op, "prefix scale %g must be within [0, 0.25]", c.Similarity.PrefixScale)
	}

	switch c.Rank.Scorer {
	case ScorerTFIDF, ScorerBM25:
	default:
		return errs.Configf(op, "rank scorer %q is unsupported", c.Rank.Scorer)
	}

	if c.Output.Limit < 0 {
		return errs.Configf(op, "output limit %d must not be negative", c.Output.Limit)
	}
	if c.Input.Timeout < 0 {
		return errs.Configf(op, "input timeout %s must not be negative", c.Input.Timeout)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return errs.Configf(op, "log level %q is unsupported", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errs.Configf(op, "log format %q is unsupported", c.Logging.Format)
	}
	return nil
}
