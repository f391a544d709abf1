package cypher_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/cypher"
	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
	"github.com/roach88/gqa/internal/testutil"
)

// leaf resolves a station or line id on g; other kinds are taken literally.
func leaf(t *testing.T, g *graph.Context, kind expr.Kind, v string) *expr.Node {
	t.Helper()
	switch kind {
	case expr.KindStation:
		rec, ok := g.Node(v)
		require.True(t, ok, "station %s", v)
		return expr.Station(rec)
	case expr.KindLine:
		rec, ok := g.Line(v)
		require.True(t, ok, "line %s", v)
		return expr.Line(rec)
	default:
		return expr.Leaf(kind, ir.IRString(v))
	}
}

func TestCatalogQueriesGolden(t *testing.T) {
	g := testutil.Metro(t)
	cat := catalog.Default()

	tests := []struct {
		golden   string
		template string
		args     []string
	}{
		{"station_shortest_count", "StationShortestCount", []string{"A", "D"}},
		{"station_line", "StationLine", []string{"A"}},
		{"station_cleanliness", "StationCleanliness", []string{"A"}},
		{"station_adjacent", "StationAdjacent", []string{"A", "B"}},
		{"station_same_line", "StationSameLine", []string{"A", "C"}},
		{"station_lines_in_common", "StationLinesInCommon", []string{"A", "C"}},
		{"line_stations", "LineStations", []string{"R"}},
		{"line_architecture_count", "LineArchitectureCount", []string{"victorian", "R"}},
		{"route_disabled_access_count", "RouteDisabledAccessCount", []string{"A", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			tmpl, ok := cat.Lookup(tt.template)
			require.True(t, ok, tt.template)
			require.Len(t, tt.args, len(tmpl.Placeholders))

			leaves := make([]*expr.Node, len(tt.args))
			for i, a := range tt.args {
				leaves[i] = leaf(t, g, tmpl.Placeholders[i], a)
			}

			query, err := cypher.Compile(expr.Canonicalize(tmpl.Build(leaves)))
			require.NoError(t, err)

			gold := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			gold.Assert(t, tt.golden, []byte(query))
		})
	}
}
