package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TEXTVEC_"

// envOverride applies one TEXTVEC_* variable.
type envOverride struct {
	name  string
	apply func(c *Config, v string) error
}

// envOverrides lists the supported variables; names are given without the
// prefix.
var envOverrides = []envOverride{
	{"VECTORIZER", func(c *Config, v string) error { c.Vectorizer.Kind = strings.ToLower(v); return nil }},
	{"TOKENIZER", func(c *Config, v string) error { return c.Vectorizer.Options.Tokenizer.Kind.UnmarshalText([]byte(v)) }},
	{"PATTERN", func(c *Config, v string) error { c.Vectorizer.Options.Tokenizer.Pattern = v; return nil }},
	{"LOWERCASE", boolVar(func(c *Config) *bool { return &c.Vectorizer.Options.Tokenizer.Lowercase })},
	{"STRIP_ACCENTS", boolVar(func(c *Config) *bool { return &c.Vectorizer.Options.Tokenizer.StripAccents })},
	{"NGRAM", func(c *Config, v string) error {
		r, err := ParseRange(v)
		c.Vectorizer.Options.Tokenizer.NGramRange = r
		return err
	}},
	{"NGRAM_SKIP", intVar(func(c *Config) *int { return &c.Vectorizer.Options.Tokenizer.NGramSkip })},
	{"STOP_WORDS", func(c *Config, v string) error {
		c.Vectorizer.Options.Tokenizer.StopWords = ParseStopWords(v)
		return nil
	}},
	{"LANG", func(c *Config, v string) error { c.Vectorizer.Options.Tokenizer.Lang = v; return nil }},
	{"STEM", func(c *Config, v string) error { c.Vectorizer.Options.Stem = v; return nil }},
	{"BINARY", boolVar(func(c *Config) *bool { return &c.Vectorizer.Options.Binary })},
	{"N_FEATURES", intVar(func(c *Config) *int { return &c.Vectorizer.Options.NFeatures })},
	{"N_JOBS", intVar(func(c *Config) *int { return &c.Vectorizer.Options.NJobs })},
	{"TFIDF", boolVar(func(c *Config) *bool { return &c.TFIDF.Enabled })},
	{"NORM", func(c *Config, v string) error { return c.TFIDF.Options.Norm.UnmarshalText([]byte(v)) }},
	{"USE_IDF", boolVar(func(c *Config) *bool { return &c.TFIDF.Options.UseIDF })},
	{"SMOOTH_IDF", boolVar(func(c *Config) *bool { return &c.TFIDF.Options.SmoothIDF })},
	{"SUBLINEAR_TF", boolVar(func(c *Config) *bool { return &c.TFIDF.Options.SublinearTF })},
	{"METRIC", func(c *Config, v string) error { c.Similarity.Metric = strings.ToLower(v); return nil }},
	{"SCORER", func(c *Config, v string) error { c.Rank.Scorer = strings.ToLower(v); return nil }},
	{"SPLIT", func(c *Config, v string) error { return c.Input.Split.UnmarshalText([]byte(v)) }},
	{"CHUNK_SIZE", intVar(func(c *Config) *int { return &c.Input.ChunkSize })},
	{"EXTRACT", func(c *Config, v string) error { return c.Input.Extract.UnmarshalText([]byte(v)) }},
	{"TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		c.Input.Timeout = d
		return err
	}},
	{"FORMAT", func(c *Config, v string) error { c.Output.Format = strings.ToLower(v); return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Logging.Format = v; return nil }},
}

// applyEnvOverrides reads TEXTVEC_* variables through lookup and overrides the
// corresponding config fields. Unset and empty variables are ignored.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	for _, o := range envOverrides {
		v, ok := lookup(EnvPrefix + o.name)
		if !ok || v == "" {
			continue
		}
		if err := o.apply(cfg, v); err != nil {
			return errs.Configf("config.Load", "%s%s=%q: %v", EnvPrefix, o.name, v, err)
		}
	}
	return nil
}

func boolVar(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

// ParseRange parses an n-gram range written "n" or "min,max" (also "min-max"
// or "min:max").
func ParseRange(s string) ([2]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '-' || r == ':' })
	if len(parts) == 0 || len(parts) > 2 {
		return [2]int{}, errs.Configf("config.ParseRange", "ngram range %q must be \"n\" or \"min,max\"", s)
	}

	var r [2]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [2]int{}, errs.Configf("config.ParseRange", "ngram range %q: %v", s, err)
		}
		r[i] = n
	}
	if len(parts) == 1 {
		r[1] = r[0]
	}
	return r, nil
}

// ParseStopWords parses a comma separated stop word list. The names "english"
// and "default" select the built-in lists, "none" clears the list.
func ParseStopWords(s string) []string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return nil
	case "english":
		return tokenize.EnglishStopWords
	case "default":
		return tokenize.DefaultStopWords
	}
	var words []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
