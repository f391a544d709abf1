package graph

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/ir"
)

func station(id string) ir.IRObject {
	return ir.Obj(ir.O(FieldID, ir.IRString(id)), ir.O(FieldName, ir.IRString("name-"+id)))
}

func hopOn(line, a, b string) ir.IRObject {
	return ir.Obj(
		ir.O(FieldID, ir.IRString(fmt.Sprintf("%s:%s-%s", line, a, b))),
		ir.O(FieldStation1, ir.IRString(a)),
		ir.O(FieldStation2, ir.IRString(b)),
		ir.O(FieldLineID, ir.IRString(line)),
		ir.O(FieldLineName, ir.IRString("line-"+line)),
	)
}

// build creates a graph from "line:a-b" hop specs; stations are created on
// first mention in the order given by ids.
func build(t *testing.T, ids []string, hops ...[3]string) *Context {
	t.Helper()
	var nodes, edges []ir.IRObject
	for _, id := range ids {
		nodes = append(nodes, station(id))
	}
	lineSeen := map[string]bool{}
	var lines []ir.IRObject
	for _, h := range hops {
		edges = append(edges, hopOn(h[0], h[1], h[2]))
		if !lineSeen[h[0]] {
			lineSeen[h[0]] = true
			lines = append(lines, ir.Obj(ir.O(FieldID, ir.IRString(h[0])), ir.O(FieldName, ir.IRString("line-"+h[0]))))
		}
	}
	g, err := New("test", nodes, edges, lines)
	require.NoError(t, err)
	return g
}

func chain(t *testing.T) *Context {
	return build(t, []string{"S1", "S2", "S3"}, [3]string{"L1", "S1", "S2"}, [3]string{"L1", "S2", "S3"})
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		nodes []ir.IRObject
		edges []ir.IRObject
		lines []ir.IRObject
		want  error
	}{
		{
			name:  "duplicate node",
			nodes: []ir.IRObject{station("A"), station("A")},
			want:  ErrDuplicateID,
		},
		{
			name:  "dangling edge",
			nodes: []ir.IRObject{station("A")},
			edges: []ir.IRObject{hopOn("L", "A", "B")},
			want:  ErrDanglingEdge,
		},
		{
			name:  "node without name",
			nodes: []ir.IRObject{ir.Obj(ir.O(FieldID, ir.IRString("A")))},
			want:  ErrInvalidRecord,
		},
		{
			name:  "duplicate line",
			nodes: []ir.IRObject{station("A")},
			lines: []ir.IRObject{ir.Obj(ir.O(FieldID, ir.IRString("L"))), ir.Obj(ir.O(FieldID, ir.IRString("L")))},
			want:  ErrDuplicateID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("g", tt.nodes, tt.edges, tt.lines)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUsable(t *testing.T) {
	assert.NoError(t, chain(t).Usable())

	islands := build(t, []string{"A", "B"})
	assert.ErrorIs(t, islands.Usable(), ErrEmptyGraph)
}

func TestAccessors(t *testing.T) {
	g := chain(t)

	assert.Equal(t, "test", g.ID())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []string{"S1", "S2", "S3"}, g.NodeIDs())

	n, ok := g.Node("S2")
	require.True(t, ok)
	assert.Equal(t, ir.IRString("name-S2"), n[FieldName])

	byName, ok := g.NodeByName("name-S3")
	require.True(t, ok)
	assert.Equal(t, ir.IRString("S3"), byName[FieldID])
	assert.True(t, g.HasName("name-S1"))
	assert.False(t, g.HasName("S1"))

	_, ok = g.Line("L1")
	assert.True(t, ok)
	assert.Len(t, g.Lines(), 1)
}

func TestNeighbors(t *testing.T) {
	g := build(t, []string{"A", "B", "C", "D"},
		[3]string{"L1", "D", "B"},
		[3]string{"L1", "B", "A"},
		[3]string{"L2", "A", "B"},
		[3]string{"L2", "B", "C"},
	)

	// Parallel lines A-B collapse to one neighbor; order follows insertion.
	assert.Equal(t, []string{"A", "C", "D"}, g.Neighbors("B"))
	assert.Equal(t, []string{"B"}, g.Neighbors("A"))
	assert.Nil(t, g.Neighbors("missing"))
}

func TestIncidentEdges(t *testing.T) {
	g := build(t, []string{"A", "B", "C"},
		[3]string{"L1", "A", "B"},
		[3]string{"L2", "A", "B"},
		[3]string{"L1", "B", "C"},
	)

	var lines []string
	for _, e := range g.IncidentEdges("B") {
		l, _ := e.String(FieldLineID)
		lines = append(lines, l)
	}
	assert.Equal(t, []string{"L1", "L2", "L1"}, lines)
	assert.Len(t, g.IncidentEdges("C"), 1)
}

func TestInduced(t *testing.T) {
	g := chain(t)

	sub := g.Induced([]string{"S1", "S3", "nope"})
	assert.Equal(t, []string{"S1", "S3"}, sub.NodeIDs())
	assert.Equal(t, 0, sub.EdgeCount())
	assert.Len(t, sub.Lines(), 1)

	// The original is untouched.
	assert.Equal(t, 2, g.EdgeCount())
}

func TestSpecRoundTrip(t *testing.T) {
	g := chain(t)

	spec := g.Spec()
	assert.Equal(t, "test", spec.ID)
	require.Len(t, spec.Nodes, 3)
	assert.Equal(t, "S1", spec.Nodes[0][FieldID])

	back, err := FromSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, g.NodeIDs(), back.NodeIDs())
	assert.True(t, slices.EqualFunc(g.Edges(), back.Edges(), func(a, b ir.IRObject) bool { return ir.Equal(a, b) }))
}

func TestFromSpecRejectsFloats(t *testing.T) {
	_, err := FromSpec(Spec{
		ID:    "g",
		Nodes: []map[string]any{{"id": "A", "name": "A", "size": 1.5}},
	})
	assert.Error(t, err)
}

func TestPropertyDomains(t *testing.T) {
	d, ok := StationDomain("architecture")
	require.True(t, ok)
	assert.Contains(t, d.Values, ir.IRValue(ir.IRString("art-deco")))

	_, ok = StationDomain("color")
	assert.False(t, ok)

	d, ok = LineDomain("stroke")
	require.True(t, ok)
	assert.Len(t, d.Values, 4)
}
