package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/driver"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/testutil"
)

func graphOnce(g *graph.Context) driver.GraphSource {
	return source{g}
}

type source struct{ g *graph.Context }

func (s source) Generate() (*graph.Context, error) { return s.g, nil }

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	g := testutil.Metro(t)
	for _, q := range []struct {
		name     string
		stations []string
	}{
		{"StationLine", []string{"C"}},
		{"StationLineCount", []string{"A"}},
		{"StationCleanliness", []string{"B"}},
		{"StationLine", []string{"A"}},
	} {
		require.NoError(t, s.WriteQuestion(ctx, createTestInstance(t, g, q.name, q.stations...)))
	}
}

func TestReadQuestions_Prefixes(t *testing.T) {
	s := createTestStore(t)
	seed(t, s)
	ctx := context.Background()

	tests := []struct {
		prefixes []string
		want     []string
	}{
		{nil, []string{"StationLine", "StationLineCount", "StationCleanliness", "StationLine"}},
		{[]string{"StationLine"}, []string{"StationLine", "StationLineCount", "StationLine"}},
		{[]string{"StationLineCount", "StationClean"}, []string{"StationLineCount", "StationCleanliness"}},
		{[]string{"Line"}, []string{}},
	}
	for _, tt := range tests {
		got, err := s.ReadQuestions(ctx, tt.prefixes)
		require.NoError(t, err)
		types := []string{}
		for _, q := range got {
			types = append(types, q.Type)
		}
		assert.Equal(t, tt.want, types, "prefixes %v", tt.prefixes)
	}
}

func TestReadQuestions_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)
	got, err := s.ReadQuestions(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReadQuestion_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadQuestion(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCountByType(t *testing.T) {
	s := createTestStore(t)
	seed(t, s)

	counts, err := s.CountByType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"StationLine":        2,
		"StationLineCount":   1,
		"StationCleanliness": 1,
	}, counts)
}
