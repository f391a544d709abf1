package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/driver"
	"github.com/roach88/gqa/internal/ir"
	"github.com/roach88/gqa/internal/testutil"
)

func TestWriteGraph_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	g := testutil.Metro(t)

	require.NoError(t, s.WriteGraph(ctx, g))
	require.NoError(t, s.WriteGraph(ctx, g))

	back, err := s.ReadGraph(ctx, "metro")
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	assert.Equal(t, g.Edges(), back.Edges())
	assert.Equal(t, g.Lines(), back.Lines())

	var nodes, edges, lines int
	require.NoError(t, s.db.QueryRow(`SELECT node_count, edge_count, line_count FROM graphs WHERE id = 'metro'`).
		Scan(&nodes, &edges, &lines))
	assert.Equal(t, []int{8, 7, 3}, []int{nodes, edges, lines})
}

func TestWriteGraph_Conflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGraph(ctx, testutil.NewGraphBuilder("g").
		Station("A", "A").Station("B", "B").
		Line("L", "Red", "red", "solid").Connect("L", "A", "B").Build(t)))

	err := s.WriteGraph(ctx, testutil.NewGraphBuilder("g").
		Station("A", "A").Station("C", "C").
		Line("L", "Red", "red", "solid").Connect("L", "A", "C").Build(t))
	assert.ErrorIs(t, err, ErrGraphConflict)
}

func TestReadGraph_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadGraph(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWriteQuestion_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	g := testutil.Metro(t)
	inst := createTestInstance(t, g, "StationLine", "C")

	require.NoError(t, s.WriteQuestion(ctx, inst))

	q, err := s.ReadQuestion(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.Seq)
	assert.Equal(t, *inst, q.Instance)
}

func TestWriteQuestion_NoCypher(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	inst := createTestInstance(t, testutil.Metro(t), "NearestStationDisabledAccess", "E")
	require.Empty(t, inst.Cypher)

	require.NoError(t, s.WriteQuestion(ctx, inst))

	var cypher sql.NullString
	require.NoError(t, s.db.QueryRow(`SELECT cypher FROM questions WHERE id = ?`, inst.ID).Scan(&cypher))
	assert.False(t, cypher.Valid)

	q, err := s.ReadQuestion(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("Bravo"), q.Answer)
	assert.Empty(t, q.Cypher)
}

func TestWriteQuestion_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	g := testutil.Metro(t)
	first := createTestInstance(t, g, "StationLine", "C")
	second := createTestInstance(t, g, "StationLineCount", "A")

	require.NoError(t, s.WriteQuestion(ctx, first))
	require.NoError(t, s.WriteQuestion(ctx, second))
	require.NoError(t, s.WriteQuestion(ctx, first))

	all, err := s.ReadQuestions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, int64(1), all[0].Seq)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, int64(2), all[1].Seq)
}

func TestWrite_Sink(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	g := testutil.Metro(t)

	d, err := driver.New(driver.Config{Count: 6, QuestionsPerGraph: 2, TypePrefixes: []string{"StationLine", "StationCleanliness"}},
		catalog.Default(), catalog.NewGenerator(testutil.Rand(4)), graphOnce(g), driver.WithSink(s))
	require.NoError(t, err)

	sum, err := d.Run(ctx)
	require.NoError(t, err)

	all, err := s.ReadQuestions(ctx, nil)
	require.NoError(t, err)

	// Identical draws share an id and are stored once.
	assert.LessOrEqual(t, len(all), sum.Generated)
	assert.NotEmpty(t, all)

	back, err := s.ReadGraph(ctx, g.ID())
	require.NoError(t, err)
	assert.Equal(t, g.NodeCount(), back.NodeCount())

	onGraph, err := s.ReadGraphQuestions(ctx, g.ID())
	require.NoError(t, err)
	assert.Equal(t, all, onGraph)
}
