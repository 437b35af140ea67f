package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/textvec/internal/app"
	"github.com/chriscorrea/textvec/internal/config"

	"github.com/spf13/cobra"
)

// buildConfig constructs an app.Config from the config file, environment,
// command flags and arguments, in increasing order of precedence.
func buildConfig(cmd *cobra.Command, args []string, command app.Command) (app.Config, error) {
	settings, err := buildSettings(cmd)
	if err != nil {
		return app.Config{}, err
	}

	format, err := app.ParseOutputFormat(settings.Output.Format)
	if err != nil {
		return app.Config{}, err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	cfg := app.Config{
		Command:  command,
		Settings: settings,
		Format:   format,
		Quiet:    quiet,
	}

	switch command {
	case app.Rank:
		query, _ := cmd.Flags().GetString("query")
		if query == "" && len(args) > 0 {
			query, args = args[0], args[1:]
		}
		cfg.Query = query
		cfg.Sources = args
	case app.Stem, app.Similarity:
		cfg.Words = args
	case app.Vectorize:
		cfg.SavePath, _ = cmd.Flags().GetString("save")
		cfg.LoadPath, _ = cmd.Flags().GetString("load")
		cfg.Sources = args
	default:
		cfg.Sources = args
	}

	// no sources means stdin
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"-"}
	}
	return cfg, nil
}

// buildSettings loads the config file and environment, then applies every
// flag the user set explicitly.
func buildSettings(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	for _, f := range flagOverrides {
		if flags.Lookup(f.name) == nil || !flags.Changed(f.name) {
			continue
		}
		if err := f.apply(settings, flags); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.name, err)
		}
	}

	if debug, _ := flags.GetBool("debug"); debug {
		settings.Logging.Level = "debug"
	}
	return settings, nil
}

// setupLogger configures the default slog logger from the logging settings
func setupLogger(cfg config.LoggingConfig) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// runCommand returns the RunE of a subcommand executing command.
func runCommand(command app.Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, args, command)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		if err := setupLogger(cfg.Settings.Logging); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := app.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("textvec failed: %w", err)
		}

		fmt.Print(result)
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "textvec",
	Short: "A CLI tool for text vectorization and string similarity",
	Long: `Textvec turns text into token streams, sparse count, hashing and TF-IDF
matrices, and ranks documents against queries. Sources may include URLs, local
files, or standard input; HTML is reduced to its main content first.

Examples:
  textvec tokenize --stem english notes.txt
  textvec vectorize --tfidf --split paragraph https://example.com
  textvec rank "solar power" *.txt
  textvec similarity martha marhta`,
	SilenceUsage: true,
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [sources...]",
	Short: "Print the analyzed tokens of every document",
	RunE:  runCommand(app.Tokenize),
}

var vectorizeCmd = &cobra.Command{
	Use:   "vectorize [sources...]",
	Short: "Print the document-term matrix of the sources",
	Long: `Vectorize fits a count, hashing or TF-IDF vectorizer on the documents and
prints the stored values of the resulting sparse matrix. A fitted vectorizer
can be saved with --save and applied to other documents with --load.`,
	RunE: runCommand(app.Vectorize),
}

var rankCmd = &cobra.Command{
	Use:   "rank <query> [sources...]",
	Short: "Rank documents by TF-IDF similarity to a query",
	Args: func(cmd *cobra.Command, args []string) error {
		if query, _ := cmd.Flags().GetString("query"); query == "" && len(args) == 0 {
			return fmt.Errorf("a query is required")
		}
		return nil
	},
	RunE: runCommand(app.Rank),
}

var stemCmd = &cobra.Command{
	Use:   "stem <words...>",
	Short: "Print the Snowball stem of every word",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCommand(app.Stem),
}

var similarityCmd = &cobra.Command{
	Use:   "similarity <a> <b>",
	Short: "Score the similarity of two strings",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommand(app.Similarity),
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [sources...]",
	Short: "Print corpus statistics",
	RunE:  runCommand(app.Inspect),
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.StringP("format", "f", "", "Output format: table, text or json (default: table)")
	pf.IntP("limit", "n", 0, "Maximum rows shown by vectorize and rank (0 shows all)")
	pf.String("log-format", "", "Log format: text or json")
	pf.BoolP("quiet", "q", false, "Suppress warnings and progress output")
	pf.BoolP("debug", "D", false, "Enable debug logging")
	_ = pf.MarkHidden("debug")

	for _, cmd := range []*cobra.Command{tokenizeCmd, vectorizeCmd, rankCmd, inspectCmd} {
		addInputFlags(cmd)
		addAnalyzerFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{vectorizeCmd, rankCmd} {
		addWeightingFlags(cmd)
	}

	vf := vectorizeCmd.Flags()
	vf.Bool("hashing", false, "Use the hashing vectorizer instead of a vocabulary")
	vf.Int("n-features", 0, "Number of hashing features (default: 2^20)")
	vf.Bool("tfidf", false, "Apply TF-IDF weighting to the counts or hashed counts")
	vf.Bool("binary", false, "Store 1 for every present term instead of counts")
	vf.String("save", "", "Write the fitted vectorizer to a snapshot file")
	vf.String("load", "", "Transform with a vectorizer snapshot instead of fitting")
	vectorizeCmd.MarkFlagsMutuallyExclusive("save", "load")

	rankCmd.Flags().String("query", "", "Query to rank against (default: first argument)")
	rankCmd.Flags().String("scorer", "", "Ranking: tfidf or bm25 (default: tfidf)")

	stemCmd.Flags().String("lang", "", "Stemming language (default: english)")

	sf := similarityCmd.Flags()
	sf.StringP("metric", "m", "", "Metric: dice, jaro, jaro-winkler or edit (default: jaro-winkler)")
	sf.Int("gram-size", 0, "Character n-gram size for dice (default: 2)")
	sf.Float64("prefix-scale", 0, "Jaro-Winkler prefix scale, at most 0.25 (default: 0.1)")
	sf.Int("max-prefix", 0, "Jaro-Winkler maximum prefix length (default: 4)")
	sf.Int("substitution-cost", 0, "Edit distance substitution cost (default: 1)")
	sf.Bool("transpositions", false, "Count adjacent transpositions as one edit")

	rootCmd.AddCommand(tokenizeCmd, vectorizeCmd, rankCmd, stemCmd, similarityCmd, inspectCmd)
}

func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("split", "", "Split sources into documents: none, line, paragraph, sentence or size")
	f.Int("chunk-size", 0, "Maximum document size in characters for --split size (default: 1000)")
	f.StringP("selector", "s", "", "CSS selector for HTML sources")
	f.BoolP("include-all", "i", false, "Include all HTML content without readability filtering")
	f.String("extract", "", "HTML rendering: text or markdown (default: text)")
	f.Bool("drop-boilerplate", false, "Drop documents that look like navigation or legal boilerplate")
	f.Duration("timeout", 0, "HTTP timeout for URL sources (default: 30s)")
}

func addAnalyzerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("tokenizer", "", "Tokenizer: regexp, segment, vtext, character or treebank")
	f.String("pattern", "", "Token pattern for the regexp tokenizer")
	f.String("ngram", "", "N-gram range, e.g. 1 or 1,2")
	f.Int("ngram-skip", 0, "Tokens that may be skipped inside an n-gram")
	f.String("stop-words", "", "Stop words: english, none, or a comma-separated list")
	f.Bool("lowercase", true, "Lowercase text before tokenizing")
	f.Bool("strip-accents", false, "Remove accents before tokenizing")
	f.String("stem", "", "Stem tokens in the given language")
	f.Int("n-jobs", 0, "Documents analyzed in parallel, -1 uses every CPU")
}

func addWeightingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("norm", "", "TF-IDF row normalization: l2 or none")
	f.Bool("use-idf", true, "Weight terms by inverse document frequency")
	f.Bool("smooth-idf", true, "Add one to document frequencies")
	f.Bool("sublinear-tf", false, "Replace term frequency tf with 1 + log(tf)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
