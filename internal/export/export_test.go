package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/driver"
	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/testutil"
)

func instance(t *testing.T, g *graph.Context, name string, stations ...string) *catalog.Instance {
	t.Helper()
	tmpl, ok := catalog.Default().Lookup(name)
	require.True(t, ok)
	leaves := make([]*expr.Node, len(stations))
	for i, id := range stations {
		rec, ok := g.Node(id)
		require.True(t, ok)
		leaves[i] = expr.Station(rec)
	}
	inst, err := catalog.NewGenerator(testutil.Rand(1)).Instantiate(tmpl, g, leaves)
	require.NoError(t, err)
	return inst
}

func TestRoundTrip(t *testing.T) {
	g := testutil.Metro(t)
	line := instance(t, g, "StationLine", "C")
	nearest := instance(t, g, "NearestStationDisabledAccess", "E")

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(context.Background(), driver.Document{Graph: g, Instance: line}))
	require.NoError(t, w.Write(context.Background(), driver.Document{Instance: nearest}))
	require.NoError(t, w.Close())
	assert.Equal(t, 2, w.Count())

	out := buf.String()
	assert.Contains(t, out, "english: Which lines is Charlie on?")
	assert.Equal(t, 1, strings.Count(out, "\n---\n"))

	docs, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	first := docs[0]
	require.NotNil(t, first.Graph)
	assert.Equal(t, "metro", first.Graph.ID)
	assert.Len(t, first.Graph.Nodes, 8)
	assert.Equal(t, line.ID, first.Question.ID)
	assert.Equal(t, TypeRef{ID: line.TypeID, Name: "StationLine"}, first.Question.Type)
	assert.Equal(t, line.TypeID, first.Question.TypeID)
	require.NotNil(t, first.Question.Cypher)
	assert.Equal(t, line.Cypher, *first.Question.Cypher)

	tree, err := first.Question.Tree()
	require.NoError(t, err)
	assert.Equal(t, line.Functional, tree)
	answer, err := first.AnswerValue()
	require.NoError(t, err)
	assert.Equal(t, line.Answer, answer)

	second := docs[1]
	assert.Nil(t, second.Graph)
	assert.Nil(t, second.Question.Cypher)
	tree, err = second.Question.Tree()
	require.NoError(t, err)
	assert.Equal(t, nearest.Functional, tree)
	assert.Equal(t, "Bravo", second.Answer)
}

func TestGraphRoundTrip(t *testing.T) {
	g := testutil.Metro(t)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(context.Background(), driver.Document{Graph: g, Instance: instance(t, g, "StationLine", "A")}))
	require.NoError(t, w.Close())

	docs, err := Read(&buf)
	require.NoError(t, err)
	back, err := graph.FromSpec(*docs[0].Graph)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	assert.Equal(t, g.Edges(), back.Edges())
	assert.Equal(t, g.Lines(), back.Lines())
}

func TestReadEmpty(t *testing.T) {
	docs, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("question: [unterminated"))
	assert.Error(t, err)
}

func TestTreeRejectsFloats(t *testing.T) {
	q := Question{ID: "q", Functional: map[string]any{"Round": []any{1.5}}}
	_, err := q.Tree()
	assert.Error(t, err)
}
