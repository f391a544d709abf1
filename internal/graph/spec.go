package graph

import (
	"fmt"

	"github.com/roach88/gqa/internal/ir"
)

// Spec is the serializable form of a graph, as written to YAML exports and
// the instance store.
type Spec struct {
	ID    string           `yaml:"id" json:"id"`
	Nodes []map[string]any `yaml:"nodes" json:"nodes"`
	Edges []map[string]any `yaml:"edges" json:"edges"`
	Lines []map[string]any `yaml:"lines" json:"lines"`
}

// FromSpec builds a Context from its serializable form.
func FromSpec(s Spec) (*Context, error) {
	nodes, err := records(s.Nodes)
	if err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}
	edges, err := records(s.Edges)
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	lines, err := records(s.Lines)
	if err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}
	return New(s.ID, nodes, edges, lines)
}

// Spec returns the serializable form of the graph.
func (c *Context) Spec() Spec {
	return Spec{
		ID:    c.id,
		Nodes: natives(c.Nodes()),
		Edges: natives(c.edges),
		Lines: natives(c.Lines()),
	}
}

func records(in []map[string]any) ([]ir.IRObject, error) {
	out := make([]ir.IRObject, len(in))
	for i, m := range in {
		v, err := ir.FromNative(m)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = v.(ir.IRObject)
	}
	return out, nil
}

func natives(in []ir.IRObject) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, r := range in {
		out[i] = ir.ToNative(r).(map[string]any)
	}
	return out
}
