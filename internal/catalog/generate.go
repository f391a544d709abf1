package catalog

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/roach88/gqa/internal/cypher"
	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/interp"
	"github.com/roach88/gqa/internal/ir"
)

// Instance is one generated question with its answer.
type Instance struct {
	// ID is the content address of (graph, type, tree, answer).
	ID      string
	GraphID string

	TypeID int
	Type   string
	Group  string

	English    string
	Functional ir.IRObject
	// Cypher is empty when the tree has no translation.
	Cypher string
	Answer ir.IRValue
}

// Generator instantiates templates against graphs.
type Generator struct {
	rng       *rand.Rand
	logger    *slog.Logger
	cypher    bool
	pathLimit int
}

// Option configures a Generator.
type Option func(*Generator)

// WithCypher turns compiled queries on or off. On by default.
func WithCypher(enabled bool) Option {
	return func(g *Generator) { g.cypher = enabled }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithPathLimit bounds route enumeration during evaluation.
func WithPathLimit(n int) Option {
	return func(g *Generator) { g.pathLimit = n }
}

// NewGenerator creates a Generator drawing from rng.
func NewGenerator(rng *rand.Rand, opts ...Option) *Generator {
	g := &Generator{
		rng:       rng,
		logger:    slog.Default(),
		cypher:    true,
		pathLimit: interp.DefaultPathLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate draws arguments for t, evaluates the answer on g and packages
// the instance.
//
// Errors for which Retryable is true mean this draw has no acceptable
// answer; any other error is a defect in the template or the graph.
func (gen *Generator) Generate(t Template, g *graph.Context) (*Instance, error) {
	leaves := make([]*expr.Node, len(t.Placeholders))
	for i, kind := range t.Placeholders {
		leaf, err := interp.Draw(kind, gen.rng, g)
		if err != nil {
			return nil, fmt.Errorf("%s: draw %s: %w", t.Name, kind, err)
		}
		leaves[i] = leaf
	}
	return gen.Instantiate(t, g, leaves)
}

// Instantiate builds the instance of t for already drawn leaves.
func (gen *Generator) Instantiate(t Template, g *graph.Context, leaves []*expr.Node) (*Instance, error) {
	if len(leaves) != len(t.Placeholders) {
		return nil, fmt.Errorf("%s: got %d arguments, want %d", t.Name, len(leaves), len(t.Placeholders))
	}
	raw := make([]ir.IRValue, len(leaves))
	words := make([]any, len(leaves))
	for i, leaf := range leaves {
		if leaf.Kind() != t.Placeholders[i] {
			return nil, fmt.Errorf("%s: argument %d is %s, want %s", t.Name, i, leaf.Kind(), t.Placeholders[i])
		}
		raw[i], _ = leaf.Literal()
		words[i] = englishify(raw[i])
	}

	tree := t.Build(leaves)
	in := interp.New(g, interp.WithRand(gen.rng), interp.WithPathLimit(gen.pathLimit))
	answer, err := in.Evaluate(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}

	if t.ArgumentsValid != nil && !t.ArgumentsValid(g, raw) {
		return nil, fmt.Errorf("%s: %w: arguments", t.Name, ErrRejected)
	}
	if t.AnswerValid != nil && !t.AnswerValid(g, answer) {
		return nil, fmt.Errorf("%s: %w: answer %s", t.Name, ErrRejected, ir.Key(answer))
	}

	inst := &Instance{
		GraphID:    g.ID(),
		TypeID:     t.ID,
		Type:       t.Name,
		Group:      t.Group,
		English:    fmt.Sprintf(t.English, words...),
		Functional: expr.Canonicalize(tree),
		Answer:     answer,
	}

	if gen.cypher {
		query, err := cypher.Compile(inst.Functional)
		if err != nil {
			gen.logger.Debug("no cypher for question", "type", t.Name, "error", err)
		}
		inst.Cypher = query
	}

	inst.ID, err = ir.InstanceID(inst.GraphID, inst.Type, inst.Functional, inst.Answer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	return inst, nil
}

// englishify renders a drawn value for the question text: entities by
// name, scalars as written.
func englishify(v ir.IRValue) string {
	switch x := v.(type) {
	case ir.IRObject:
		if name, ok := x.String(graph.FieldName); ok {
			return name
		}
		return ir.Key(x)
	case ir.IRString:
		return string(x)
	case ir.IRInt:
		return strconv.FormatInt(int64(x), 10)
	case ir.IRBool:
		return strconv.FormatBool(bool(x))
	default:
		return ir.Key(v)
	}
}
