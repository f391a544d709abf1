package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/config"
	"github.com/roach88/gqa/internal/driver"
	"github.com/roach88/gqa/internal/export"
	"github.com/roach88/gqa/internal/metrics"
	"github.com/roach88/gqa/internal/store"
	"github.com/roach88/gqa/internal/synth"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	ConfigPath string

	Count             int
	QuestionsPerGraph int
	OmitGraph         bool
	StringNames       bool
	TypePrefixes      []string
	Tiny              bool
	Small             bool
	DisableCypher     bool
	Seed              int64
	Out               string
	DB                string
	Name              string
	MetricsOut        string
}

// GenerateResult is the data payload of a successful run.
type GenerateResult struct {
	File      string         `json:"file"`
	Seed      int64          `json:"seed"`
	Generated int            `json:"generated"`
	Graphs    int            `json:"graphs"`
	Retries   int            `json:"retries"`
	Defects   int            `json:"defects"`
	PerType   map[string]int `json:"per_type"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

func newGenerateCommand(opts *GenerateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate (graph, question, answer) documents",
		Long: `Generate question/answer documents over random transit graphs.

Documents are written as a YAML stream, one question per document, and
optionally stored in a SQLite database. Settings come from the flags, a
CUE file given with --config, and the built-in defaults, in that order.

Example:
  gqa generate --count 1000 --small --seed 7
  gqa generate --config gqa.cue --db ./gqa.db --type-prefix Station`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigPath, "config", "", "CUE configuration file")
	f.IntVar(&opts.Count, "count", 0, "number of questions to generate")
	f.IntVar(&opts.QuestionsPerGraph, "questions-per-graph", 0, "questions asked about each graph")
	f.BoolVar(&opts.OmitGraph, "omit-graph", false, "leave the graph out of each document")
	f.BoolVar(&opts.StringNames, "string-names", false, "use word names instead of integers")
	f.StringArrayVar(&opts.TypePrefixes, "type-prefix", nil, "only question types starting with this prefix (repeatable)")
	f.BoolVar(&opts.Tiny, "tiny", false, "generate tiny graphs")
	f.BoolVar(&opts.Small, "small", false, "generate small graphs")
	f.BoolVar(&opts.DisableCypher, "disable-cypher", false, "skip Cypher compilation")
	f.Int64Var(&opts.Seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.StringVar(&opts.Out, "out", "", "output YAML file (default ./data/gqa-<uuid>.yaml)")
	f.StringVar(&opts.DB, "db", "", "also store questions in this SQLite database")
	f.StringVar(&opts.Name, "name", "", "prefix for the default output file name")
	f.StringVar(&opts.MetricsOut, "metrics-out", "", "write generation counters to this file")
	cmd.MarkFlagsMutuallyExclusive("tiny", "small")

	return cmd
}

// resolveConfig loads the config file and applies explicitly set flags.
func resolveConfig(opts *GenerateOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	set := cmd.Flags().Changed
	if set("count") {
		cfg.Count = opts.Count
	}
	if set("questions-per-graph") {
		cfg.QuestionsPerGraph = opts.QuestionsPerGraph
	}
	if set("omit-graph") {
		cfg.OmitGraph = opts.OmitGraph
	}
	if set("string-names") {
		cfg.IntNames = !opts.StringNames
	}
	if set("type-prefix") {
		cfg.TypePrefixes = opts.TypePrefixes
	}
	if opts.Tiny {
		cfg.Preset = "tiny"
	}
	if opts.Small {
		cfg.Preset = "small"
	}
	if set("disable-cypher") {
		cfg.Cypher = !opts.DisableCypher
	}
	if set("seed") {
		cfg.Seed = opts.Seed
	}
	if set("out") {
		cfg.Out = opts.Out
	}
	if set("db") {
		cfg.DB = opts.DB
	}
	if set("name") {
		cfg.Name = opts.Name
	}
	if set("metrics-out") {
		cfg.MetricsOut = opts.MetricsOut
	}
	return cfg, nil
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	stats, err := synth.Preset(cfg.Preset)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid preset", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	path := cfg.Out
	if path == "" {
		path = defaultOutPath(cfg.Name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	yamlOut := export.NewWriter(file)
	finished := false
	defer func() {
		if finished {
			return
		}
		if err := file.Close(); err != nil {
			logger.Error("error closing output file", "file", path, "error", err)
		}
	}()

	rec := metrics.New()
	driverOpts := []driver.Option{
		driver.WithSink(yamlOut),
		driver.WithLogger(logger),
		driver.WithMetrics(rec),
	}
	if cfg.DB != "" {
		st, err := store.Open(cfg.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		driverOpts = append(driverOpts, driver.WithSink(st))
	}

	graphs := synth.New(rng, synth.Options{Stats: stats, Interchange: cfg.Interchange, IntNames: cfg.IntNames})
	gen := catalog.NewGenerator(rng,
		catalog.WithCypher(cfg.Cypher),
		catalog.WithLogger(logger),
		catalog.WithPathLimit(cfg.PathLimit))

	d, err := driver.New(driver.Config{
		Count:             cfg.Count,
		QuestionsPerGraph: cfg.QuestionsPerGraph,
		OmitGraph:         cfg.OmitGraph,
		TypePrefixes:      cfg.TypePrefixes,
	}, catalog.Default(), gen, graphs, driverOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid generation settings", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("generating", "count", cfg.Count, "preset", cfg.Preset, "seed", seed, "file", path)
	sum, runErr := d.Run(ctx)

	finished = true
	if err := finishOutput(yamlOut, file); err != nil && runErr == nil {
		runErr = fmt.Errorf("write %s: %w", path, err)
	}
	if cfg.MetricsOut != "" {
		if err := rec.WriteTextfile(cfg.MetricsOut); err != nil {
			logger.Error("error writing metrics", "error", err)
		}
	}
	if runErr != nil {
		if driver.IsAbort(runErr) || errors.Is(runErr, context.Canceled) {
			return WrapExitError(ExitFailure, "generation stopped", runErr)
		}
		return WrapExitError(ExitCommandError, "generation failed", runErr)
	}

	res := GenerateResult{
		File:      path,
		Seed:      seed,
		Generated: sum.Generated,
		Graphs:    sum.Graphs,
		Retries:   sum.Retries,
		Defects:   sum.Defects,
		PerType:   sum.Successes,
	}
	return out.Success(res, fmt.Sprintf("Generated %d questions over %d graphs into %s (seed %d)",
		res.Generated, res.Graphs, res.File, res.Seed))
}

// finishOutput flushes the YAML stream and closes the file under it.
func finishOutput(w *export.Writer, f io.Closer) error {
	return errors.Join(w.Close(), f.Close())
}

func defaultOutPath(name string) string {
	base := "gqa-" + uuid.NewString() + ".yaml"
	if name != "" {
		base = "gqa-" + name + "-" + uuid.NewString() + ".yaml"
	}
	return filepath.Join("data", base)
}
