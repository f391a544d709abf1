package cypher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
	"github.com/roach88/gqa/internal/testutil"
)

func stationLeaf(t *testing.T, g *graph.Context, id string) *expr.Node {
	t.Helper()
	rec, ok := g.Node(id)
	require.True(t, ok)
	return expr.Station(rec)
}

func lineLeaf(t *testing.T, g *graph.Context, id string) *expr.Node {
	t.Helper()
	rec, ok := g.Line(id)
	require.True(t, ok)
	return expr.Line(rec)
}

// questionTrees are hand-built trees covering every translatable clause
// shape. The catalog's own trees are compiled against golden files in
// catalog_golden_test.go.
func questionTrees(t *testing.T) map[string]*expr.Node {
	g := testutil.Metro(t)
	alpha, bravo := stationLeaf(t, g, "A"), stationLeaf(t, g, "B")
	charlie, delta := stationLeaf(t, g, "C"), stationLeaf(t, g, "D")
	red := lineLeaf(t, g, "R")
	onLine := func(l *expr.Node) *expr.Node {
		return expr.Nodes(expr.Filter(expr.AllEdges(), expr.Str("line_id"), expr.Pick(l, expr.Str("id"))))
	}

	return map[string]*expr.Node{
		"station_shortest_count": expr.CountNodesBetween(expr.ShortestPath(alpha, delta, expr.List())),
		"station_line":           expr.GetLines(alpha),
		"station_cleanliness":    expr.Pick(alpha, expr.Str("cleanliness")),
		"station_adjacent":       expr.Adjacent(alpha, bravo),
		"station_same_line":      expr.HasIntersection(expr.GetLines(alpha), expr.GetLines(charlie)),
		"station_lines_in_common": expr.Intersection(expr.GetLines(alpha), expr.GetLines(charlie)),
		"line_stations":          expr.Pluck(expr.Unique(onLine(red)), expr.Str("name")),
		"line_architecture_count": expr.CountIfEqual(expr.Pluck(expr.Unique(onLine(red)), expr.Str("architecture")),
			expr.Leaf(expr.KindArchitecture, ir.IRString("victorian"))),
		"route_disabled_access_count": expr.Count(expr.Filter(expr.ShortestPath(alpha, delta, expr.List()),
			expr.Str("disabled_access"), expr.Bool(true))),
	}
}

func TestCompileNodeMatchesCompile(t *testing.T) {
	tree := questionTrees(t)["station_same_line"]

	fromForm, err := Compile(expr.Canonicalize(tree))
	require.NoError(t, err)
	fromNode, err := CompileNode(tree)
	require.NoError(t, err)
	assert.Equal(t, fromForm, fromNode)
}

func TestRetiredVariablesAreNeverRestated(t *testing.T) {
	for name, tree := range questionTrees(t) {
		t.Run(name, func(t *testing.T) {
			c := newCompiler()
			require.NoError(t, c.run(tree))

			for i, cl := range c.clauses {
				for _, v := range cl.restated {
					at, gone := c.retired[v]
					assert.False(t, gone && at <= i, "clause %d %q restates %s retired at clause %d", i, cl.text, v, at)
				}
			}
			last := c.clauses[len(c.clauses)-1].text
			assert.Regexp(t, `^RETURN var\d+$`, last)
		})
	}
}

func TestUniqueThenProjectionRestatesLiveOnly(t *testing.T) {
	c := newCompiler()
	require.NoError(t, c.run(questionTrees(t)["station_same_line"]))

	var restatements [][]string
	for _, cl := range c.clauses {
		if cl.restated != nil {
			restatements = append(restatements, cl.restated)
		}
	}
	// After the first Unique only its result survives.
	assert.Equal(t, [][]string{{}, {}, {"var4"}, {"var4"}, {}}, restatements)
}

func TestPhase(t *testing.T) {
	g := testutil.Metro(t)
	alpha := stationLeaf(t, g, "A")

	tests := []struct {
		name string
		tree *expr.Node
		want phase
	}{
		{"pattern", expr.Neighbors(alpha), matching},
		{"projection", expr.Pick(alpha, expr.Str("size")), projecting},
		{"filter after projection", expr.Filter(expr.Unique(expr.AllNodes()), expr.Str("size"), expr.Str("tiny")), projecting},
		{"pattern after projection", expr.Neighbors(expr.First(expr.AllNodes())), matching},
		{"unwind", expr.Intersection(expr.GetLines(alpha), expr.GetLines(alpha)), projecting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCompiler()
			_, err := c.compile(tt.tree)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.phase, "got %s", c.phase)
		})
	}
}

func TestPredicatesBufferAcrossMatches(t *testing.T) {
	g := testutil.Metro(t)
	tree := expr.Count(expr.ShortestPath(stationLeaf(t, g, "A"), stationLeaf(t, g, "D"), expr.List()))

	c := newCompiler()
	_, err := c.compile(tree)
	require.NoError(t, err)

	var texts []string
	for _, cl := range c.clauses {
		texts = append(texts, cl.text)
	}
	assert.Equal(t, []string{
		"MATCH (var1:NODE)",
		"MATCH (var2:NODE)",
		`WHERE var1.name = "Alpha" AND var2.name = "Delta"`,
		"MATCH tmp1 = shortestPath((var1)-[*]-(var2))",
		"UNWIND nodes(tmp1) AS var3",
		"WITH count(var3) AS var4",
	}, texts)
	assert.Equal(t, projecting, c.phase)
	assert.Empty(t, c.where)
}

func TestPredicatesFlushOntoProjectionBeforeMatch(t *testing.T) {
	tree := expr.Nodes(expr.Filter(expr.Unique(expr.AllEdges()), expr.Str("line_name"), expr.Str("Red")))

	query, err := CompileNode(tree)
	require.NoError(t, err)
	assert.Equal(t, "MATCH ()-[var1:EDGE]->()\nWITH DISTINCT var1 AS var2\nWHERE var2.line_name = \"Red\"\nMATCH (var3:NODE)-[var2]-()\nRETURN var3", query)
}

func TestFilterPassesThroughListVariable(t *testing.T) {
	tree := expr.Pluck(expr.Filter(expr.AllNodes(), expr.Str("music"), expr.Str("pop")), expr.Str("name"))

	query, err := CompileNode(tree)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (var1:NODE)\nWHERE var1.music = \"pop\"\nWITH var1.name AS var2\nRETURN var2", query)
}

func TestLiteralEncoding(t *testing.T) {
	tree := expr.Equal(expr.Const(ir.Strings(`say "hi"`, `back\slash`)), expr.List(ir.IRInt(3), ir.IRBool(false)))

	query, err := CompileNode(tree)
	require.NoError(t, err)
	assert.Equal(t, `WITH ["say \"hi\"", "back\\slash"] = [3, false] AS var1`+"\nRETURN var1", query)
}

func TestCompileUnsupported(t *testing.T) {
	g := testutil.Metro(t)
	alpha := stationLeaf(t, g, "A")
	nearest := expr.MinBy(expr.AllNodes(), expr.Fn("y", func(y *expr.Node) *expr.Node {
		return expr.Count(expr.ShortestPath(alpha, y, expr.List()))
	}))

	tests := []struct {
		name string
		tree *expr.Node
		kind expr.Kind
	}{
		{"mode", expr.Mode(expr.Pluck(expr.AllNodes(), expr.Str("music"))), expr.KindMode},
		{"min by", nearest, expr.KindMinBy},
		{"paths", expr.Paths(alpha, alpha), expr.KindPaths},
		{"has cycle", expr.HasCycle(alpha), expr.KindHasCycle},
		{"record literal", expr.Equal(expr.Const(ir.Obj(ir.O("a", ir.IRInt(1)))), alpha), expr.KindConst},
		{"count literal", expr.Count(expr.List(ir.IRInt(1))), expr.KindCount},
		{"computed key", expr.Pick(alpha, expr.Pick(alpha, expr.Str("name"))), expr.KindPick},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileNode(tt.tree)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotTranslatable)

			var ue *UnsupportedError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.kind, ue.Kind)
		})
	}
}

func TestCompileRejectsMalformedForm(t *testing.T) {
	_, err := Compile(ir.IRObject{"Teleport": ir.IRArray{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrUnknownKind)
	assert.NotErrorIs(t, err, ErrNotTranslatable)
}
