package main

import (
	"encoding"
	"strings"

	"github.com/spf13/pflag"

	"github.com/chriscorrea/textvec/internal/config"
	"github.com/chriscorrea/textvec/pkg/tfidf"
)

// flagOverride copies one explicitly set flag into the settings.
type flagOverride struct {
	name  string
	apply func(*config.Config, *pflag.FlagSet) error
}

func stringFlag(name string, field func(*config.Config) *string) flagOverride {
	return flagOverride{name, func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString(name)
		*field(c) = v
		return err
	}}
}

func boolFlag(name string, field func(*config.Config) *bool) flagOverride {
	return flagOverride{name, func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetBool(name)
		*field(c) = v
		return err
	}}
}

func intFlag(name string, field func(*config.Config) *int) flagOverride {
	return flagOverride{name, func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetInt(name)
		*field(c) = v
		return err
	}}
}

// textFlag parses a string flag into a field implementing UnmarshalText.
func textFlag(name string, field func(*config.Config) encoding.TextUnmarshaler) flagOverride {
	return flagOverride{name, func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString(name)
		if err != nil {
			return err
		}
		return field(c).UnmarshalText([]byte(v))
	}}
}

var flagOverrides = []flagOverride{
	// output
	stringFlag("format", func(c *config.Config) *string { return &c.Output.Format }),
	intFlag("limit", func(c *config.Config) *int { return &c.Output.Limit }),
	stringFlag("log-format", func(c *config.Config) *string { return &c.Logging.Format }),

	// input
	textFlag("split", func(c *config.Config) encoding.TextUnmarshaler { return &c.Input.Split }),
	intFlag("chunk-size", func(c *config.Config) *int { return &c.Input.ChunkSize }),
	stringFlag("selector", func(c *config.Config) *string { return &c.Input.Selector }),
	boolFlag("include-all", func(c *config.Config) *bool { return &c.Input.IncludeAll }),
	textFlag("extract", func(c *config.Config) encoding.TextUnmarshaler { return &c.Input.Extract }),
	boolFlag("drop-boilerplate", func(c *config.Config) *bool { return &c.Input.DropBoilerplate }),
	{"timeout", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetDuration("timeout")
		c.Input.Timeout = v
		return err
	}},

	// analyzer
	textFlag("tokenizer", func(c *config.Config) encoding.TextUnmarshaler {
		return &c.Vectorizer.Options.Tokenizer.Kind
	}),
	stringFlag("pattern", func(c *config.Config) *string { return &c.Vectorizer.Options.Tokenizer.Pattern }),
	{"ngram", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString("ngram")
		if err != nil {
			return err
		}
		c.Vectorizer.Options.Tokenizer.NGramRange, err = config.ParseRange(v)
		return err
	}},
	intFlag("ngram-skip", func(c *config.Config) *int { return &c.Vectorizer.Options.Tokenizer.NGramSkip }),
	{"stop-words", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString("stop-words")
		c.Vectorizer.Options.Tokenizer.StopWords = config.ParseStopWords(v)
		return err
	}},
	boolFlag("lowercase", func(c *config.Config) *bool { return &c.Vectorizer.Options.Tokenizer.Lowercase }),
	boolFlag("strip-accents", func(c *config.Config) *bool { return &c.Vectorizer.Options.Tokenizer.StripAccents }),
	stringFlag("stem", func(c *config.Config) *string { return &c.Vectorizer.Options.Stem }),
	stringFlag("lang", func(c *config.Config) *string { return &c.Vectorizer.Options.Stem }),
	intFlag("n-jobs", func(c *config.Config) *int { return &c.Vectorizer.Options.NJobs }),

	// vectorizer
	{"hashing", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetBool("hashing")
		c.Vectorizer.Kind = config.KindCount
		if v {
			c.Vectorizer.Kind = config.KindHashing
		}
		return err
	}},
	intFlag("n-features", func(c *config.Config) *int { return &c.Vectorizer.Options.NFeatures }),
	boolFlag("binary", func(c *config.Config) *bool { return &c.Vectorizer.Options.Binary }),
	boolFlag("tfidf", func(c *config.Config) *bool { return &c.TFIDF.Enabled }),
	{"norm", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString("norm")
		if err != nil {
			return err
		}
		c.TFIDF.Options.Norm, err = tfidf.ParseNorm(v)
		return err
	}},
	boolFlag("use-idf", func(c *config.Config) *bool { return &c.TFIDF.Options.UseIDF }),
	boolFlag("smooth-idf", func(c *config.Config) *bool { return &c.TFIDF.Options.SmoothIDF }),
	boolFlag("sublinear-tf", func(c *config.Config) *bool { return &c.TFIDF.Options.SublinearTF }),

	// rank
	{"scorer", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString("scorer")
		c.Rank.Scorer = strings.ToLower(v)
		return err
	}},

	// similarity
	{"metric", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetString("metric")
		c.Similarity.Metric = strings.ToLower(v)
		return err
	}},
	intFlag("gram-size", func(c *config.Config) *int { return &c.Similarity.NGram }),
	{"prefix-scale", func(c *config.Config, f *pflag.FlagSet) error {
		v, err := f.GetFloat64("prefix-scale")
		c.Similarity.PrefixScale = v
		return err
	}},
	intFlag("max-prefix", func(c *config.Config) *int { return &c.Similarity.MaxPrefix }),
	intFlag("substitution-cost", func(c *config.Config) *int { return &c.Similarity.SubstitutionCost }),
	boolFlag("transpositions", func(c *config.Config) *bool { return &c.Similarity.Transpositions }),
}
