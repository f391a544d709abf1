package expr

import "github.com/roach88/gqa/internal/ir"

// Literal helpers.

// Lit wraps any value as a literal operand.
func Lit(v ir.IRValue) Literal { return Literal{Value: v} }

// Str is a string literal.
func Str(s string) Literal { return Literal{Value: ir.IRString(s)} }

// Int is an integer literal.
func Int(n int64) Literal { return Literal{Value: ir.IRInt(n)} }

// Bool is a boolean literal.
func Bool(b bool) Literal { return Literal{Value: ir.IRBool(b)} }

// List is a list literal.
func List(vs ...ir.IRValue) Literal { return Literal{Value: append(ir.IRArray{}, vs...)} }

// Leaf builds a sampler leaf holding an already-drawn value.
func Leaf(kind Kind, v ir.IRValue) *Node {
	return MustNew(kind, Lit(v))
}

// Station is a leaf holding a station record.
func Station(rec ir.IRObject) *Node { return Leaf(KindStation, rec) }

// Line is a leaf holding a line record.
func Line(rec ir.IRObject) *Node { return Leaf(KindLine, rec) }

// Const is a leaf that evaluates to v.
func Const(v ir.IRValue) *Node { return Leaf(KindConst, v) }

// Fn builds a key-function by calling body once with a LambdaArg(param)
// placeholder. The returned tree is the function body.
func Fn(param string, body func(arg *Node) *Node) Func {
	arg := MustNew(KindLambdaArg, Str(param))
	return Func{param: param, body: body(arg)}
}

// Projection.

func Pick(rec, key Operand) *Node { return MustNew(KindPick, rec, key) }
func Pluck(list, key Operand) *Node { return MustNew(KindPluck, list, key) }
func Equal(a, b Operand) *Node { return MustNew(KindEqual, a, b) }

// Traversal.

func AllNodes() *Node { return MustNew(KindAllNodes) }
func AllEdges() *Node { return MustNew(KindAllEdges) }
func Edges(nodes Operand) *Node { return MustNew(KindEdges, nodes) }
func Nodes(edges Operand) *Node { return MustNew(KindNodes, edges) }
func Neighbors(node Operand) *Node { return MustNew(KindNeighbors, node) }
func HasCycle(node Operand) *Node { return MustNew(KindHasCycle, node) }
func Paths(a, b Operand) *Node { return MustNew(KindPaths, a, b) }
func WithinHops(node, k Operand) *Node {
	return MustNew(KindWithinHops, node, k)
}

// ShortestPath evaluates to the station records on a shortest route from a
// to b, or to fallback when there is none.
func ShortestPath(a, b, fallback Operand) *Node {
	return MustNew(KindShortestPath, a, b, fallback)
}

// ShortestPathOnlyUsing is ShortestPath restricted to allowed stations
// (plus the endpoints).
func ShortestPathOnlyUsing(a, b, allowed, fallback Operand) *Node {
	return MustNew(KindShortestPathOnlyUsing, a, b, allowed, fallback)
}

// FilterAdjacent evaluates to the [x, y] pairs with x from a, y from b and
// x adjacent to y.
func FilterAdjacent(a, b Operand) *Node { return MustNew(KindFilterAdjacent, a, b) }

// FilterHasPathTo keeps the stations of list that can reach target.
func FilterHasPathTo(list, target Operand) *Node {
	return MustNew(KindFilterHasPathTo, list, target)
}

// Lists and aggregates.

func Count(list Operand) *Node { return MustNew(KindCount, list) }
func CountIfEqual(list, v Operand) *Node { return MustNew(KindCountIfEqual, list, v) }
func NotEmpty(list Operand) *Node { return MustNew(KindNotEmpty, list) }
func Unique(list Operand) *Node { return MustNew(KindUnique, list) }
func Mode(list Operand) *Node { return MustNew(KindMode, list) }
func SlidingPairs(list Operand) *Node { return MustNew(KindSlidingPairs, list) }
func HasIntersection(a, b Operand) *Node { return MustNew(KindHasIntersection, a, b) }
func Intersection(a, b Operand) *Node { return MustNew(KindIntersection, a, b) }
func Without(list, remove Operand) *Node { return MustNew(KindWithout, list, remove) }
func UnpackUnitList(list Operand) *Node { return MustNew(KindUnpackUnitList, list) }
func Sample(list, n Operand) *Node { return MustNew(KindSample, list, n) }
func First(list Operand) *Node { return MustNew(KindFirst, list) }
func MinBy(list Operand, key Func) *Node { return MustNew(KindMinBy, list, key) }
func Filter(list, key, value Operand) *Node { return MustNew(KindFilter, list, key, value) }

// Numeric.

func Subtract(a, b Operand) *Node { return MustNew(KindSubtract, a, b) }
func Round(v Operand) *Node { return MustNew(KindRound, v) }

// Macros. These expand at construction time; their names never appear in
// a tree.

// GetLines is the distinct line names serving the given station(s).
func GetLines(stations Operand) *Node {
	return Unique(Pluck(Edges(stations), Str("line_name")))
}

// Adjacent is whether b is a direct neighbor of a.
func Adjacent(a, b Operand) *Node {
	return NotEmpty(Filter(Neighbors(a), Str("id"), Pick(b, Str("id"))))
}

// CountNodesBetween is the number of intermediate stations on a path,
// excluding both endpoints.
func CountNodesBetween(path Operand) *Node {
	return Subtract(Count(path), Int(2))
}
