package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// GraphBuilder assembles small hand-written graphs for tests.
type GraphBuilder struct {
	id       string
	nodes    []ir.IRObject
	edges    []ir.IRObject
	lines    []ir.IRObject
	names    map[string]string
	lineByID map[string]ir.IRObject
}

// NewGraphBuilder creates an empty builder for a graph with the given id.
func NewGraphBuilder(id string) *GraphBuilder {
	return &GraphBuilder{
		id:       id,
		names:    map[string]string{},
		lineByID: map[string]ir.IRObject{},
	}
}

// Station adds a station. Every station gets a plain default value for
// each station property; props override them.
func (b *GraphBuilder) Station(id, name string, props ...ir.IRPair) *GraphBuilder {
	rec := ir.Obj(
		ir.O(graph.FieldID, ir.IRString(id)),
		ir.O(graph.FieldName, ir.IRString(name)),
		ir.O("disabled_access", ir.IRBool(false)),
		ir.O("has_rail", ir.IRBool(true)),
		ir.O("music", ir.IRString("none")),
		ir.O("architecture", ir.IRString("new")),
		ir.O("size", ir.IRString("small")),
		ir.O("cleanliness", ir.IRString("clean")),
	)
	for _, p := range props {
		rec[p.Key] = p.Value
	}
	b.nodes = append(b.nodes, rec)
	b.names[id] = name
	return b
}

// Line adds a line.
func (b *GraphBuilder) Line(id, name, color, stroke string) *GraphBuilder {
	rec := ir.Obj(
		ir.O(graph.FieldID, ir.IRString(id)),
		ir.O(graph.FieldName, ir.IRString(name)),
		ir.O("color", ir.IRString(color)),
		ir.O("stroke", ir.IRString(stroke)),
		ir.O("has_aircon", ir.IRBool(true)),
		ir.O("built", ir.IRString("recent")),
	)
	b.lines = append(b.lines, rec)
	b.lineByID[id] = rec
	return b
}

// Connect adds one edge per consecutive pair of stations along a line.
func (b *GraphBuilder) Connect(lineID string, stations ...string) *GraphBuilder {
	line := b.lineByID[lineID]
	for i := 1; i < len(stations); i++ {
		s1, s2 := stations[i-1], stations[i]
		b.edges = append(b.edges, ir.Obj(
			ir.O(graph.FieldID, ir.IRString(fmt.Sprintf("e%d", len(b.edges)))),
			ir.O(graph.FieldStation1, ir.IRString(s1)),
			ir.O(graph.FieldStation2, ir.IRString(s2)),
			ir.O("station1_name", ir.IRString(b.names[s1])),
			ir.O("station2_name", ir.IRString(b.names[s2])),
			ir.O(graph.FieldLineID, ir.IRString(lineID)),
			ir.O(graph.FieldLineName, line[graph.FieldName]),
			ir.O("line_color", line["color"]),
			ir.O("line_stroke", line["stroke"]),
		))
	}
	return b
}

// Build constructs the graph, failing the test on invalid input.
func (b *GraphBuilder) Build(t testing.TB) *graph.Context {
	t.Helper()
	g, err := graph.New(b.id, b.nodes, b.edges, b.lines)
	require.NoError(t, err)
	return g
}

// Chain is S1 - S2 - S3 on a single line.
func Chain(t testing.TB) *graph.Context {
	t.Helper()
	return NewGraphBuilder("chain").
		Station("S1", "S1").
		Station("S2", "S2").
		Station("S3", "S3").
		Line("L1", "Red", "red", "solid").
		Connect("L1", "S1", "S2", "S3").
		Build(t)
}

// Islands is two stations with no edge between them.
func Islands(t testing.TB) *graph.Context {
	t.Helper()
	return NewGraphBuilder("islands").
		Station("A", "A").
		Station("B", "B").
		Build(t)
}

// Metro is a three-line network with a loop and one unconnected station.
//
//	Red:   Alpha - Bravo - Charlie - Delta
//	Blue:  Charlie - Echo - Foxtrot
//	Green: Foxtrot - Golf - Alpha
//	Zulu stands alone.
func Metro(t testing.TB) *graph.Context {
	t.Helper()
	s := func(v string) ir.IRString { return ir.IRString(v) }
	return NewGraphBuilder("metro").
		Station("A", "Alpha", ir.O("architecture", s("victorian")), ir.O("music", s("rock n roll"))).
		Station("B", "Bravo", ir.O("architecture", s("modernist")), ir.O("cleanliness", s("dirty")),
			ir.O("music", s("classical")), ir.O("disabled_access", ir.IRBool(true)), ir.O("size", s("large"))).
		Station("C", "Charlie", ir.O("architecture", s("victorian")), ir.O("cleanliness", s("shabby")),
			ir.O("size", s("medium-sized"))).
		Station("D", "Delta", ir.O("architecture", s("glass")), ir.O("music", s("pop")),
			ir.O("disabled_access", ir.IRBool(true)), ir.O("size", s("tiny"))).
		Station("E", "Echo", ir.O("architecture", s("concrete")), ir.O("music", s("classical"))).
		Station("F", "Foxtrot", ir.O("architecture", s("victorian")), ir.O("cleanliness", s("rat-infested")),
			ir.O("music", s("swing")), ir.O("size", s("massive"))).
		Station("G", "Golf", ir.O("cleanliness", s("dirty")), ir.O("music", s("electronic"))).
		Station("Z", "Zulu", ir.O("architecture", s("art-deco")), ir.O("music", s("country")),
			ir.O("disabled_access", ir.IRBool(true))).
		Line("R", "Red", "red", "solid").
		Line("U", "Blue", "blue", "dashed").
		Line("N", "Green", "green", "dotted").
		Connect("R", "A", "B", "C", "D").
		Connect("U", "C", "E", "F").
		Connect("N", "F", "G", "A").
		Build(t)
}

// Rand returns a seeded random source.
func Rand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
