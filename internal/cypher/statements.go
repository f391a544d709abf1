package cypher

import (
	"fmt"
	"strings"

	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// GraphStatements returns Cypher statements that load g into an empty
// database: one CREATE per station (label NODE) and line (label LINE),
// then one MATCH ... CREATE per edge (label EDGE, directed station1 to
// station2). Properties are written in sorted key order.
func GraphStatements(g *graph.Context) ([]string, error) {
	var out []string
	for _, n := range g.Nodes() {
		props, err := properties(n)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", n[graph.FieldID], err)
		}
		out = append(out, "CREATE (n:NODE "+props+")")
	}
	for _, l := range g.Lines() {
		props, err := properties(l)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l[graph.FieldID], err)
		}
		out = append(out, "CREATE (n:LINE "+props+")")
	}
	for _, e := range g.Edges() {
		props, err := properties(e)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", e[graph.FieldID], err)
		}
		from, _ := encode(e[graph.FieldStation1])
		to, _ := encode(e[graph.FieldStation2])
		out = append(out, fmt.Sprintf(
			"MATCH (from),(to) WHERE from.id = %s AND to.id = %s CREATE (from)-[l:EDGE %s]->(to)",
			from, to, props))
	}
	return out, nil
}

func properties(rec ir.IRObject) (string, error) {
	parts := make([]string, 0, len(rec))
	for _, k := range rec.SortedKeys() {
		v, err := encode(rec[k])
		if err != nil {
			return "", fmt.Errorf("property %s: %w", k, err)
		}
		key, _ := property("", term{lit: ir.IRString(k)})
		parts = append(parts, key+": "+v)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
