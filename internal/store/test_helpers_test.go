package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/testutil"
)

// createTestStore creates a temporary store that is automatically cleaned up.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestInstance instantiates a default template with the given stations.
func createTestInstance(t *testing.T, g *graph.Context, name string, stations ...string) *catalog.Instance {
	t.Helper()
	tmpl, ok := catalog.Default().Lookup(name)
	require.True(t, ok, name)
	leaves := make([]*expr.Node, len(stations))
	for i, id := range stations {
		rec, ok := g.Node(id)
		require.True(t, ok, id)
		leaves[i] = expr.Station(rec)
	}
	inst, err := catalog.NewGenerator(testutil.Rand(1)).Instantiate(tmpl, g, leaves)
	require.NoError(t, err)
	return inst
}
