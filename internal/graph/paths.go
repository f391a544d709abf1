package graph

import (
	"iter"
	"slices"
	"strconv"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// ShortestPath returns the node ids of a fewest-hops path from a to b,
// including both endpoints. Among equal-length paths the one reached first
// in insertion order wins, so the result is deterministic.
// ok is false when either node is missing or b is unreachable.
func (c *Context) ShortestPath(a, b string) (path []string, ok bool) {
	if !c.HasNode(a) || !c.HasNode(b) {
		return nil, false
	}
	if a == b {
		return []string{a}, true
	}

	prev := map[string]string{a: ""}
	queue := []string{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range c.Neighbors(cur) {
			if _, seen := prev[n]; seen {
				continue
			}
			prev[n] = cur
			if n == b {
				for at := b; at != ""; at = prev[at] {
					path = append(path, at)
				}
				slices.Reverse(path)
				return path, true
			}
			queue = append(queue, n)
		}
	}
	return nil, false
}

// AllSimplePaths yields every path from a to b that visits no node twice.
// Each yielded slice is owned by the caller. The sequence is finite but can
// be exponential in graph size.
func (c *Context) AllSimplePaths(a, b string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if !c.HasNode(a) || !c.HasNode(b) || a == b {
			return
		}
		path := []string{a}
		onPath := map[string]bool{a: true}

		var walk func(cur string) bool
		walk = func(cur string) bool {
			for _, n := range c.Neighbors(cur) {
				if onPath[n] {
					continue
				}
				if n == b {
					if !yield(append(slices.Clone(path), n)) {
						return false
					}
					continue
				}
				onPath[n] = true
				path = append(path, n)
				if !walk(n) {
					return false
				}
				path = path[:len(path)-1]
				delete(onPath, n)
			}
			return true
		}
		walk(a)
	}
}

// HasPath reports whether b is reachable from a.
func (c *Context) HasPath(a, b string) bool {
	ua, okA := c.index[a]
	ub, okB := c.index[b]
	if !okA || !okB {
		return false
	}
	return topo.PathExistsIn(c.g, multi.Node(ua), multi.Node(ub))
}

// WithinHops returns the stations reachable from id in at most k hops,
// excluding id itself, in insertion order.
func (c *Context) WithinHops(id string, k int) []string {
	u, ok := c.index[id]
	if !ok || k <= 0 {
		return nil
	}

	var found []int64
	bf := traverse.BreadthFirst{}
	bf.Walk(c.g, multi.Node(u), func(n gonum.Node, depth int) bool {
		if depth > k {
			return true
		}
		if n.ID() != u {
			found = append(found, n.ID())
		}
		return false
	})

	slices.Sort(found)
	out := make([]string, len(found))
	for i, v := range found {
		out[i] = c.order[v]
	}
	return out
}

// edgeKey identifies a physical hop independent of record direction:
// the unordered endpoint pair plus the line it belongs to.
type edgeKey struct {
	lo, hi string
	line   string
}

func (c *Context) keyOf(from string, h hop) edgeKey {
	lo, hi := from, h.to
	if hi < lo {
		lo, hi = hi, lo
	}
	line, ok := c.edges[h.edge].String(FieldLineID)
	if !ok {
		line = "#" + strconv.Itoa(h.edge)
	}
	return edgeKey{lo: lo, hi: hi, line: line}
}

// HasCycle reports whether a depth-first walk from id can return to a
// station it already visited without reusing a hop.
//
// Hops are keyed by edgeKey, so repeated records of the same line segment
// are one hop, while two lines between the same pair of stations are two.
func (c *Context) HasCycle(id string) bool {
	if !c.HasNode(id) {
		return false
	}
	visited := map[string]bool{}
	used := map[edgeKey]bool{}

	var visit func(cur string) bool
	visit = func(cur string) bool {
		visited[cur] = true
		for _, h := range c.hops(cur) {
			key := c.keyOf(cur, h)
			if used[key] {
				continue
			}
			used[key] = true
			if visited[h.to] {
				return true
			}
			if visit(h.to) {
				return true
			}
		}
		return false
	}
	return visit(id)
}
