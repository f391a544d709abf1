package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/interp"
	"github.com/roach88/gqa/internal/ir"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	templates := c.Templates()
	require.Len(t, templates, 21)

	for i, tmpl := range templates {
		assert.Equal(t, i, tmpl.ID)
		assert.NotEmpty(t, tmpl.Group, tmpl.Name)
		got, ok := c.Lookup(tmpl.Name)
		require.True(t, ok)
		assert.Equal(t, i, got.ID)
	}

	first, ok := c.Lookup("StationShortestCount")
	require.True(t, ok)
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "How many stations are between {Station} and {Station}?", first.Explain())
}

func TestMatching(t *testing.T) {
	c := Default()
	assert.Len(t, c.Matching(nil), 21)

	var names []string
	for _, tmpl := range c.Matching([]string{"LineMost", "StationLine"}) {
		names = append(names, tmpl.Name)
	}
	assert.Equal(t, []string{"StationLine", "StationLineCount", "LineMostArchitecture", "StationLinesInCommon"}, names)
}

func TestNewRejectsBadTemplates(t *testing.T) {
	build := func(a []*expr.Node) *expr.Node { return expr.Count(expr.AllNodes()) }
	tests := map[string][]Template{
		"no name":       {{Build: build}},
		"duplicate":     {{Name: "A", Build: build}, {Name: "A", Build: build}},
		"no builder":    {{Name: "A"}},
		"not samplable": {{Name: "A", Build: build, Placeholders: []expr.Kind{expr.KindCount}, English: "%s"}},
		"verb mismatch": {{Name: "A", Build: build, Placeholders: []expr.Kind{expr.KindStation}, English: "no verbs"}},
	}
	for name, ts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(ts...)
			assert.Error(t, err)
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrRejected))
	assert.True(t, Retryable(&interp.EvalError{Code: interp.ErrCodeAmbiguous}))
	assert.False(t, Retryable(&interp.EvalError{Code: interp.ErrCodeMissingKey}))
	assert.False(t, Retryable(assert.AnError))
}

func TestEnglishify(t *testing.T) {
	assert.Equal(t, "Alpha", englishify(ir.Obj(ir.O("id", ir.IRString("A")), ir.O("name", ir.IRString("Alpha")))))
	assert.Equal(t, "victorian", englishify(ir.IRString("victorian")))
	assert.Equal(t, "true", englishify(ir.IRBool(true)))
	assert.Equal(t, "42", englishify(ir.IRInt(42)))
	assert.True(t, strings.HasPrefix(englishify(ir.Obj(ir.O("id", ir.IRString("A")))), "{"))
}

func leafOf(t *testing.T, g *graph.Context, kind expr.Kind, v string) *expr.Node {
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
	case expr.KindBoolean:
		return expr.Leaf(kind, ir.IRBool(v == "true"))
	default:
		return expr.Leaf(kind, ir.IRString(v))
	}
}
