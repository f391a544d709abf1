package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gqa/internal/ir"
)

func mustJSON(t *testing.T, v ir.IRValue) string {
	t.Helper()
	b, err := ir.MarshalCanonical(v)
	require.NoError(t, err)
	return string(b)
}

func TestCanonicalizeShape(t *testing.T) {
	tree := Count(Filter(AllNodes(), Str("architecture"), Leaf(KindArchitecture, ir.IRString("glass"))))

	assert.Equal(t,
		`{"Count":[{"Filter":[{"AllNodes":[]},"architecture",{"Architecture":["glass"]}]}]}`,
		mustJSON(t, Canonicalize(tree)))
}

func TestCanonicalizeLambda(t *testing.T) {
	x := Station(ir.Obj(ir.O("id", ir.IRString("S1")), ir.O("name", ir.IRString("S1"))))
	tree := MinBy(AllNodes(), Fn("y", func(y *Node) *Node {
		return Count(ShortestPath(x, y, List()))
	}))

	assert.Equal(t,
		`{"MinBy":[{"AllNodes":[]},{"Lambda":[{"Count":[{"ShortestPath":[{"Station":[{"id":"S1","name":"S1"}]},{"LambdaArg":["y"]},[]]}]}]}]}`,
		mustJSON(t, Canonicalize(tree)))
}

func TestCanonicalRoundTrip(t *testing.T) {
	station := ir.Obj(ir.O("id", ir.IRString("S1")), ir.O("name", ir.IRString("S1")), ir.O("music", ir.IRString("pop")))
	s := Station(station)

	trees := map[string]*Node{
		"count between": CountNodesBetween(ShortestPath(s, s, List())),
		"lines":         GetLines(s),
		"min by": MinBy(FilterHasPathTo(Filter(AllNodes(), Str("disabled_access"), Bool(true)), s),
			Fn("y", func(y *Node) *Node { return Count(ShortestPath(s, y, List())) })),
		"deep lambda body": MinBy(AllNodes(), Fn("y", func(y *Node) *Node {
			return Count(Filter(Neighbors(y), Str("id"), Pick(First(UnpackUnitList(Const(ir.IRArray{station}))), Str("id"))))
		})),
		"only using": ShortestPathOnlyUsing(s, s, Without(AllNodes(), Filter(AllNodes(), Str("music"), Leaf(KindMusic, ir.IRString("pop")))), List()),
		"record literal": Equal(Const(station), s),
		"fake name":      NotEmpty(Filter(AllNodes(), Str("name"), Leaf(KindFakeStationName, ir.IRString("42")))),
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			form := Canonicalize(tree)

			parsed, err := Parse(form)
			require.NoError(t, err)
			require.NoError(t, Validate(parsed))

			assert.Equal(t, mustJSON(t, form), mustJSON(t, Canonicalize(parsed)))
		})
	}
}

func TestParseRecoversParam(t *testing.T) {
	form, err := ir.UnmarshalIRValue([]byte(
		`{"MinBy":[{"AllNodes":[]},{"Lambda":[{"Pick":[{"LambdaArg":["q"]},"size"]}]}]}`))
	require.NoError(t, err)

	n, err := Parse(form)
	require.NoError(t, err)
	f := n.Operand(1).(Func)
	assert.Equal(t, "q", f.Param())
	assert.Equal(t, KindPick, f.Body().Kind())
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"not a record":      `["Count"]`,
		"two keys":          `{"Count":[],"First":[]}`,
		"unknown kind":      `{"Teleport":[]}`,
		"operands not list": `{"Count":"x"}`,
		"wrong arity":       `{"Count":[]}`,
		"bare lambda":       `{"Lambda":[{"AllNodes":[]}]}`,
		"literal as func":   `{"MinBy":[{"AllNodes":[]},3]}`,
		"unbound arg":       `{"Count":[{"LambdaArg":["y"]}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ir.UnmarshalIRValue([]byte(in))
			require.NoError(t, err)
			_, err = Parse(v)
			assert.Error(t, err)
		})
	}
}
