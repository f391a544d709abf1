package interp

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// DefaultPathLimit bounds how many routes Paths may enumerate.
const DefaultPathLimit = 10000

// Interpreter evaluates expression trees against one graph.
//
// Evaluation is strict and post-order: every operand is evaluated before
// its operator. The only state consulted besides the graph is the random
// source, which Sample draws from.
type Interpreter struct {
	graph     *graph.Context
	rng       *rand.Rand
	pathLimit int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRand sets the random source used by Sample.
func WithRand(rng *rand.Rand) Option {
	return func(in *Interpreter) { in.rng = rng }
}

// WithPathLimit bounds the number of routes Paths may produce.
func WithPathLimit(n int) Option {
	return func(in *Interpreter) { in.pathLimit = n }
}

// New creates an Interpreter for g.
func New(g *graph.Context, opts ...Option) *Interpreter {
	in := &Interpreter{
		graph:     g,
		rng:       rand.New(rand.NewSource(1)),
		pathLimit: DefaultPathLimit,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Evaluate computes the value of a tree against g with default options.
func Evaluate(n *expr.Node, g *graph.Context) (ir.IRValue, error) {
	return New(g).Evaluate(n)
}

// Evaluate computes the value of n.
func (in *Interpreter) Evaluate(n *expr.Node) (ir.IRValue, error) {
	if err := expr.Validate(n); err != nil {
		return nil, &EvalError{Code: ErrCodeMalformed, Message: "invalid tree", Err: err}
	}
	return in.eval(n, nil)
}

// env binds key-function parameters to the element being keyed.
type env map[string]ir.IRValue

func (e env) with(name string, v ir.IRValue) env {
	out := make(env, len(e)+1)
	for k, val := range e {
		out[k] = val
	}
	out[name] = v
	return out
}

func (in *Interpreter) eval(n *expr.Node, bindings env) (ir.IRValue, error) {
	kind := n.Kind()
	if kind == expr.KindLambdaArg {
		lit, _ := n.Literal()
		name := string(lit.(ir.IRString))
		v, ok := bindings[name]
		if !ok {
			return nil, newError(ErrCodeMalformed, kind, "unbound argument %q", name)
		}
		return v, nil
	}
	if expr.IsLeaf(kind) {
		v, _ := n.Literal()
		return v, nil
	}

	args := make([]ir.IRValue, n.Len())
	var fn expr.Func
	for i := range n.Len() {
		switch op := n.Operand(i).(type) {
		case *expr.Node:
			v, err := in.eval(op, bindings)
			if err != nil {
				return nil, err
			}
			args[i] = v
		case expr.Literal:
			args[i] = op.Value
		case expr.Func:
			fn = op
		}
	}

	switch kind {
	case expr.KindPick:
		return in.pick(args)
	case expr.KindPluck:
		return in.pluck(args)
	case expr.KindEqual:
		return ir.IRBool(ir.Equal(args[0], args[1])), nil

	case expr.KindAllNodes:
		return records(in.graph.Nodes()), nil
	case expr.KindAllEdges:
		return records(in.graph.Edges()), nil
	case expr.KindEdges:
		return in.edges(args)
	case expr.KindNodes:
		return in.nodes(args)
	case expr.KindNeighbors:
		return in.neighbors(args)
	case expr.KindWithinHops:
		return in.withinHops(args)
	case expr.KindShortestPath:
		return in.shortestPath(kind, in.graph, args[0], args[1], args[2])
	case expr.KindShortestPathOnlyUsing:
		return in.shortestPathOnlyUsing(args)
	case expr.KindPaths:
		return in.paths(args)
	case expr.KindHasCycle:
		id, err := in.nodeID(kind, args[0])
		if err != nil {
			return nil, err
		}
		return ir.IRBool(in.graph.HasCycle(id)), nil
	case expr.KindFilterAdjacent:
		return in.filterAdjacent(args)
	case expr.KindFilterHasPathTo:
		return in.filterHasPathTo(args)

	case expr.KindCount:
		l, err := asList(kind, args[0])
		if err != nil {
			return nil, err
		}
		return ir.IRInt(len(l)), nil
	case expr.KindCountIfEqual:
		return countIfEqual(args)
	case expr.KindNotEmpty:
		l, err := asList(kind, args[0])
		if err != nil {
			return nil, err
		}
		return ir.IRBool(len(l) > 0), nil
	case expr.KindUnique:
		l, err := asList(kind, args[0])
		if err != nil {
			return nil, err
		}
		return unique(l), nil
	case expr.KindMode:
		return mode(args)
	case expr.KindSlidingPairs:
		return slidingPairs(args)
	case expr.KindHasIntersection:
		both, err := intersection(kind, args)
		if err != nil {
			return nil, err
		}
		return ir.IRBool(len(both) > 0), nil
	case expr.KindIntersection:
		return intersection(kind, args)
	case expr.KindFilter:
		return filter(args)
	case expr.KindWithout:
		return without(args)
	case expr.KindUnpackUnitList:
		l, err := asList(kind, args[0])
		if err != nil {
			return nil, err
		}
		if len(l) != 1 {
			return nil, newError(ErrCodeNotUnit, kind, "expected exactly one element, got %d", len(l))
		}
		return l[0], nil
	case expr.KindSample:
		return in.sample(args)
	case expr.KindFirst:
		l, err := asList(kind, args[0])
		if err != nil {
			return nil, err
		}
		if len(l) == 0 {
			return nil, newError(ErrCodeEmpty, kind, "empty list")
		}
		return l[0], nil
	case expr.KindMinBy:
		return in.minBy(args[0], fn, bindings)

	case expr.KindSubtract:
		a, err := asInt(kind, args[0])
		if err != nil {
			return nil, err
		}
		b, err := asInt(kind, args[1])
		if err != nil {
			return nil, err
		}
		return a - b, nil
	case expr.KindRound:
		return round(args[0])

	default:
		return nil, newError(ErrCodeMalformed, kind, "no evaluation rule")
	}
}

func (in *Interpreter) pick(args []ir.IRValue) (ir.IRValue, error) {
	rec, err := asRecord(expr.KindPick, args[0])
	if err != nil {
		return nil, err
	}
	key, err := asString(expr.KindPick, args[1])
	if err != nil {
		return nil, err
	}
	return field(expr.KindPick, rec, key)
}

func (in *Interpreter) pluck(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindPluck, args[0])
	if err != nil {
		return nil, err
	}
	key, err := asString(expr.KindPluck, args[1])
	if err != nil {
		return nil, err
	}
	out := make(ir.IRArray, len(l))
	for i, v := range l {
		rec, err := asRecord(expr.KindPluck, v)
		if err != nil {
			return nil, err
		}
		if out[i], err = field(expr.KindPluck, rec, key); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// edges returns the edges incident to a station, or to each station of a
// list in turn. An edge between two listed stations appears once per end.
func (in *Interpreter) edges(args []ir.IRValue) (ir.IRValue, error) {
	stations, err := oneOrMany(args[0])
	if err != nil {
		return nil, err
	}
	out := ir.IRArray{}
	for _, s := range stations {
		id, err := in.nodeID(expr.KindEdges, s)
		if err != nil {
			return nil, err
		}
		for _, e := range in.graph.IncidentEdges(id) {
			out = append(out, e)
		}
	}
	return out, nil
}

// nodes returns both endpoint stations of each edge, in edge order.
func (in *Interpreter) nodes(args []ir.IRValue) (ir.IRValue, error) {
	edges, err := oneOrMany(args[0])
	if err != nil {
		return nil, err
	}
	out := make(ir.IRArray, 0, 2*len(edges))
	for _, e := range edges {
		rec, err := asRecord(expr.KindNodes, e)
		if err != nil {
			return nil, err
		}
		for _, end := range []string{graph.FieldStation1, graph.FieldStation2} {
			v, err := field(expr.KindNodes, rec, end)
			if err != nil {
				return nil, err
			}
			id, err := asString(expr.KindNodes, v)
			if err != nil {
				return nil, err
			}
			node, ok := in.graph.Node(id)
			if !ok {
				return nil, newError(ErrCodeUnknownNode, expr.KindNodes, "edge endpoint %q", id)
			}
			out = append(out, node)
		}
	}
	return out, nil
}

func (in *Interpreter) neighbors(args []ir.IRValue) (ir.IRValue, error) {
	id, err := in.nodeID(expr.KindNeighbors, args[0])
	if err != nil {
		return nil, err
	}
	return in.byID(in.graph.Neighbors(id)), nil
}

func (in *Interpreter) withinHops(args []ir.IRValue) (ir.IRValue, error) {
	id, err := in.nodeID(expr.KindWithinHops, args[0])
	if err != nil {
		return nil, err
	}
	k, err := asInt(expr.KindWithinHops, args[1])
	if err != nil {
		return nil, err
	}
	return in.byID(in.graph.WithinHops(id, int(k))), nil
}

func (in *Interpreter) shortestPath(kind expr.Kind, g *graph.Context, a, b, fallback ir.IRValue) (ir.IRValue, error) {
	from, err := in.nodeID(kind, a)
	if err != nil {
		return nil, err
	}
	to, err := in.nodeID(kind, b)
	if err != nil {
		return nil, err
	}
	path, ok := g.ShortestPath(from, to)
	if !ok {
		return fallback, nil
	}
	return in.byID(path), nil
}

// shortestPathOnlyUsing searches the subgraph induced by the allowed
// stations plus both endpoints.
func (in *Interpreter) shortestPathOnlyUsing(args []ir.IRValue) (ir.IRValue, error) {
	const kind = expr.KindShortestPathOnlyUsing
	allowed, err := asList(kind, args[2])
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(allowed)+2)
	for _, v := range append(ir.IRArray{args[0], args[1]}, allowed...) {
		id, err := in.nodeID(kind, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return in.shortestPath(kind, in.graph.Induced(ids), args[0], args[1], args[3])
}

func (in *Interpreter) paths(args []ir.IRValue) (ir.IRValue, error) {
	from, err := in.nodeID(expr.KindPaths, args[0])
	if err != nil {
		return nil, err
	}
	to, err := in.nodeID(expr.KindPaths, args[1])
	if err != nil {
		return nil, err
	}
	out := ir.IRArray{}
	for p := range in.graph.AllSimplePaths(from, to) {
		if len(out) >= in.pathLimit {
			return nil, newError(ErrCodePathLimit, expr.KindPaths, "more than %d routes", in.pathLimit)
		}
		out = append(out, in.byID(p))
	}
	return out, nil
}

// filterAdjacent returns [x, y] for every x in a and y in b that are
// directly connected.
func (in *Interpreter) filterAdjacent(args []ir.IRValue) (ir.IRValue, error) {
	const kind = expr.KindFilterAdjacent
	as, err := asList(kind, args[0])
	if err != nil {
		return nil, err
	}
	bs, err := asList(kind, args[1])
	if err != nil {
		return nil, err
	}
	out := ir.IRArray{}
	for _, x := range as {
		xid, err := in.nodeID(kind, x)
		if err != nil {
			return nil, err
		}
		adjacent := map[string]bool{}
		for _, n := range in.graph.Neighbors(xid) {
			adjacent[n] = true
		}
		for _, y := range bs {
			yid, err := in.nodeID(kind, y)
			if err != nil {
				return nil, err
			}
			if adjacent[yid] {
				out = append(out, ir.IRArray{x, y})
			}
		}
	}
	return out, nil
}

func (in *Interpreter) filterHasPathTo(args []ir.IRValue) (ir.IRValue, error) {
	const kind = expr.KindFilterHasPathTo
	l, err := asList(kind, args[0])
	if err != nil {
		return nil, err
	}
	target, err := in.nodeID(kind, args[1])
	if err != nil {
		return nil, err
	}
	out := ir.IRArray{}
	for _, v := range l {
		id, err := in.nodeID(kind, v)
		if err != nil {
			return nil, err
		}
		if in.graph.HasPath(id, target) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (in *Interpreter) sample(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindSample, args[0])
	if err != nil {
		return nil, err
	}
	n, err := asInt(expr.KindSample, args[1])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, newError(ErrCodeTypeMismatch, expr.KindSample, "negative sample size %d", n)
	}
	if int(n) > len(l) {
		return nil, newError(ErrCodeTooFew, expr.KindSample, "cannot draw %d from %d", n, len(l))
	}
	out := make(ir.IRArray, n)
	for i, j := range in.rng.Perm(len(l))[:n] {
		out[i] = l[j]
	}
	return out, nil
}

// minBy returns the first element with the smallest key. Keys must be
// mutually comparable scalars.
func (in *Interpreter) minBy(list ir.IRValue, fn expr.Func, bindings env) (ir.IRValue, error) {
	l, err := asList(expr.KindMinBy, list)
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return nil, newError(ErrCodeEmpty, expr.KindMinBy, "empty list")
	}
	var best, bestKey ir.IRValue
	for _, v := range l {
		key, err := in.eval(fn.Body(), bindings.with(fn.Param(), v))
		if err != nil {
			return nil, err
		}
		if best == nil {
			best, bestKey = v, key
			continue
		}
		c, ok := ir.Compare(key, bestKey)
		if !ok {
			return nil, newError(ErrCodeTypeMismatch, expr.KindMinBy,
				"cannot compare keys of type %s and %s", ir.TypeName(key), ir.TypeName(bestKey))
		}
		if c < 0 {
			best, bestKey = v, key
		}
	}
	return best, nil
}

func (in *Interpreter) nodeID(kind expr.Kind, v ir.IRValue) (string, error) {
	rec, err := asRecord(kind, v)
	if err != nil {
		return "", err
	}
	idv, err := field(kind, rec, graph.FieldID)
	if err != nil {
		return "", err
	}
	id, err := asString(kind, idv)
	if err != nil {
		return "", err
	}
	if !in.graph.HasNode(id) {
		return "", newError(ErrCodeUnknownNode, kind, "station %q", id)
	}
	return id, nil
}

func (in *Interpreter) byID(ids []string) ir.IRArray {
	out := make(ir.IRArray, len(ids))
	for i, id := range ids {
		n, _ := in.graph.Node(id)
		out[i] = n
	}
	return out
}

func countIfEqual(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindCountIfEqual, args[0])
	if err != nil {
		return nil, err
	}
	want := ir.Key(args[1])
	n := 0
	for _, v := range l {
		if ir.Key(v) == want {
			n++
		}
	}
	return ir.IRInt(n), nil
}

func unique(l ir.IRArray) ir.IRArray {
	out := ir.IRArray{}
	seen := map[string]bool{}
	for _, v := range l {
		k := ir.Key(v)
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

// mode returns the single most common element.
func mode(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindMode, args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return nil, newError(ErrCodeEmpty, expr.KindMode, "empty list")
	}
	counts := map[string]int{}
	for _, v := range l {
		counts[ir.Key(v)]++
	}
	var best ir.IRValue
	top, ties := 0, 0
	for _, v := range unique(l) {
		switch c := counts[ir.Key(v)]; {
		case c > top:
			best, top, ties = v, c, 1
		case c == top:
			ties++
		}
	}
	if ties > 1 {
		return nil, newError(ErrCodeAmbiguous, expr.KindMode, "%d values share the top count %d", ties, top)
	}
	return best, nil
}

func slidingPairs(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindSlidingPairs, args[0])
	if err != nil {
		return nil, err
	}
	out := ir.IRArray{}
	for i := 1; i < len(l); i++ {
		out = append(out, ir.IRArray{l[i-1], l[i]})
	}
	return out, nil
}

// intersection returns the distinct elements of a that also occur in b,
// in a's order.
func intersection(kind expr.Kind, args []ir.IRValue) (ir.IRArray, error) {
	a, err := asList(kind, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asList(kind, args[1])
	if err != nil {
		return nil, err
	}
	inB := keys(b)
	out := ir.IRArray{}
	for _, v := range unique(a) {
		if inB[ir.Key(v)] {
			out = append(out, v)
		}
	}
	return out, nil
}

func filter(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindFilter, args[0])
	if err != nil {
		return nil, err
	}
	key, err := asString(expr.KindFilter, args[1])
	if err != nil {
		return nil, err
	}
	want := ir.Key(args[2])
	out := ir.IRArray{}
	for _, v := range l {
		rec, err := asRecord(expr.KindFilter, v)
		if err != nil {
			return nil, err
		}
		got, err := field(expr.KindFilter, rec, key)
		if err != nil {
			return nil, err
		}
		if ir.Key(got) == want {
			out = append(out, v)
		}
	}
	return out, nil
}

func without(args []ir.IRValue) (ir.IRValue, error) {
	l, err := asList(expr.KindWithout, args[0])
	if err != nil {
		return nil, err
	}
	drop, err := asList(expr.KindWithout, args[1])
	if err != nil {
		return nil, err
	}
	gone := keys(drop)
	out := ir.IRArray{}
	for _, v := range l {
		if !gone[ir.Key(v)] {
			out = append(out, v)
		}
	}
	return out, nil
}

// round rounds a numeric value, or each element of a list, to the nearest
// integer. Numeric strings are parsed first.
func round(v ir.IRValue) (ir.IRValue, error) {
	if l, ok := v.(ir.IRArray); ok {
		out := make(ir.IRArray, len(l))
		for i, e := range l {
			r, err := roundScalar(e)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	return roundScalar(v)
}

func roundScalar(v ir.IRValue) (ir.IRValue, error) {
	switch x := v.(type) {
	case ir.IRInt:
		return x, nil
	case ir.IRString:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newError(ErrCodeTypeMismatch, expr.KindRound, "%q is not a number", string(x))
		}
		return ir.IRInt(math.Round(f)), nil
	default:
		return nil, newError(ErrCodeTypeMismatch, expr.KindRound, "cannot round %s", ir.TypeName(v))
	}
}

func records(rs []ir.IRObject) ir.IRArray {
	out := make(ir.IRArray, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

func keys(l ir.IRArray) map[string]bool {
	out := make(map[string]bool, len(l))
	for _, v := range l {
		out[ir.Key(v)] = true
	}
	return out
}

// oneOrMany accepts a single record or a list of them.
func oneOrMany(v ir.IRValue) (ir.IRArray, error) {
	switch x := v.(type) {
	case ir.IRObject:
		return ir.IRArray{x}, nil
	case ir.IRArray:
		return x, nil
	default:
		return nil, &EvalError{Code: ErrCodeTypeMismatch, Message: "expected record or list, got " + ir.TypeName(v)}
	}
}

func asList(kind expr.Kind, v ir.IRValue) (ir.IRArray, error) {
	l, ok := v.(ir.IRArray)
	if !ok {
		return nil, newError(ErrCodeTypeMismatch, kind, "expected list, got %s", ir.TypeName(v))
	}
	return l, nil
}

func asRecord(kind expr.Kind, v ir.IRValue) (ir.IRObject, error) {
	r, ok := v.(ir.IRObject)
	if !ok {
		return nil, newError(ErrCodeTypeMismatch, kind, "expected record, got %s", ir.TypeName(v))
	}
	return r, nil
}

func asString(kind expr.Kind, v ir.IRValue) (string, error) {
	s, ok := v.(ir.IRString)
	if !ok {
		return "", newError(ErrCodeTypeMismatch, kind, "expected string, got %s", ir.TypeName(v))
	}
	return string(s), nil
}

func asInt(kind expr.Kind, v ir.IRValue) (ir.IRInt, error) {
	n, ok := v.(ir.IRInt)
	if !ok {
		return 0, newError(ErrCodeTypeMismatch, kind, "expected int, got %s", ir.TypeName(v))
	}
	return n, nil
}

func field(kind expr.Kind, rec ir.IRObject, key string) (ir.IRValue, error) {
	v, ok := rec[key]
	if !ok {
		return nil, newError(ErrCodeMissingKey, kind, "record has no field %q", key)
	}
	return v, nil
}
