package cli

import (
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/gqa/internal/cypher"
	"github.com/roach88/gqa/internal/synth"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Preset      string
	StringNames bool
	Interchange float64
	Seed        int64
	Cypher      bool
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate a single transit graph",
		Long: `Generate one random transit graph and print it as YAML, or as the
Cypher statements that load it into a graph database.

Example:
  gqa graph --preset tiny --seed 3
  gqa graph --cypher | cypher-shell`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Preset, "preset", "default", "graph size (default|small|tiny)")
	cmd.Flags().BoolVar(&opts.StringNames, "string-names", false, "use word names instead of integers")
	cmd.Flags().Float64Var(&opts.Interchange, "interchange", synth.DefaultOptions().Interchange, "chance a line reuses an existing station")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 seeds from the clock)")
	cmd.Flags().BoolVar(&opts.Cypher, "cypher", false, "print Cypher load statements instead of YAML")

	return cmd
}

func runGraph(opts *GraphOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	stats, err := synth.Preset(opts.Preset)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid preset", err)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := synth.New(rand.New(rand.NewSource(seed)), synth.Options{
		Stats:       stats,
		Interchange: opts.Interchange,
		IntNames:    !opts.StringNames,
	})
	g, err := gen.Generate()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to generate graph", err)
	}
	out.VerboseLog("graph %s: %d stations, %d lines (seed %d)", g.ID(), g.NodeCount(), len(g.Lines()), seed)

	if opts.Cypher {
		stmts, err := cypher.GraphStatements(g)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render graph", err)
		}
		return out.Success(stmts, strings.Join(stmts, "\n"))
	}

	spec := g.Spec()
	text, err := yaml.Marshal(spec)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode graph", err)
	}
	return out.Success(spec, strings.TrimRight(string(text), "\n"))
}
