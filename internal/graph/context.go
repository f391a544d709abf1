package graph

import (
	"fmt"
	"slices"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"

	"github.com/roach88/gqa/internal/ir"
)

// Record field names shared by generators, the interpreter and the
// Cypher graph builder.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldStation1 = "station1"
	FieldStation2 = "station2"
	FieldLineID   = "line_id"
	FieldLineName = "line_name"
)

// Context is an immutable property graph of stations, line hops and lines.
//
// Node ids map to dense gonum ids in insertion order, so sorting by gonum
// id reproduces insertion order. Each edge is a gonum line whose UID is the
// edge's index in the edge sequence.
type Context struct {
	id string

	nodes map[string]ir.IRObject
	order []string
	index map[string]int64
	names map[string]string

	edges []ir.IRObject

	lines     map[string]ir.IRObject
	lineOrder []string

	g *multi.UndirectedGraph
}

// New builds a Context from node, edge and line records.
//
// Nodes need string "id" and "name" fields. Edges need string "station1"
// and "station2" fields naming existing nodes. Lines need a string "id".
// The records are retained, not copied; callers must not mutate them.
func New(id string, nodes, edges, lines []ir.IRObject) (*Context, error) {
	c := &Context{
		id:    id,
		nodes: make(map[string]ir.IRObject, len(nodes)),
		index: make(map[string]int64, len(nodes)),
		names: make(map[string]string, len(nodes)),
		lines: make(map[string]ir.IRObject, len(lines)),
		g:     multi.NewUndirectedGraph(),
	}

	for i, n := range nodes {
		nid, ok := n.String(FieldID)
		if !ok {
			return nil, fmt.Errorf("node %d: %w: missing string %q", i, ErrInvalidRecord, FieldID)
		}
		name, ok := n.String(FieldName)
		if !ok {
			return nil, fmt.Errorf("node %q: %w: missing string %q", nid, ErrInvalidRecord, FieldName)
		}
		if _, dup := c.nodes[nid]; dup {
			return nil, fmt.Errorf("node %q: %w", nid, ErrDuplicateID)
		}
		c.nodes[nid] = n
		c.index[nid] = int64(len(c.order))
		c.order = append(c.order, nid)
		if _, seen := c.names[name]; !seen {
			c.names[name] = nid
		}
		c.g.AddNode(multi.Node(c.index[nid]))
	}

	for i, l := range lines {
		lid, ok := l.String(FieldID)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: missing string %q", i, ErrInvalidRecord, FieldID)
		}
		if _, dup := c.lines[lid]; dup {
			return nil, fmt.Errorf("line %q: %w", lid, ErrDuplicateID)
		}
		c.lines[lid] = l
		c.lineOrder = append(c.lineOrder, lid)
	}

	for i, e := range edges {
		a, okA := e.String(FieldStation1)
		b, okB := e.String(FieldStation2)
		if !okA || !okB {
			return nil, fmt.Errorf("edge %d: %w: missing endpoints", i, ErrInvalidRecord)
		}
		ua, okA := c.index[a]
		ub, okB := c.index[b]
		if !okA || !okB {
			return nil, fmt.Errorf("edge %d (%s-%s): %w", i, a, b, ErrDanglingEdge)
		}
		c.g.SetLine(multi.Line{F: multi.Node(ua), T: multi.Node(ub), UID: int64(i)})
		c.edges = append(c.edges, e)
	}

	return c, nil
}

// ID returns the graph id.
func (c *Context) ID() string { return c.id }

// Usable reports whether the graph has at least one node and one edge.
func (c *Context) Usable() error {
	if len(c.nodes) == 0 || len(c.edges) == 0 {
		return ErrEmptyGraph
	}
	return nil
}

// NodeCount returns the number of stations.
func (c *Context) NodeCount() int { return len(c.order) }

// EdgeCount returns the number of line hops.
func (c *Context) EdgeCount() int { return len(c.edges) }

// HasNode reports whether id is a node.
func (c *Context) HasNode(id string) bool {
	_, ok := c.nodes[id]
	return ok
}

// Node returns the node record for id.
func (c *Context) Node(id string) (ir.IRObject, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// NodeByName returns the first node inserted with the given name.
func (c *Context) NodeByName(name string) (ir.IRObject, bool) {
	id, ok := c.names[name]
	if !ok {
		return nil, false
	}
	return c.nodes[id], true
}

// HasName reports whether any node carries name.
func (c *Context) HasName(name string) bool {
	_, ok := c.names[name]
	return ok
}

// NodeIDs returns node ids in insertion order.
func (c *Context) NodeIDs() []string {
	return slices.Clone(c.order)
}

// Nodes returns node records in insertion order.
func (c *Context) Nodes() []ir.IRObject {
	out := make([]ir.IRObject, len(c.order))
	for i, id := range c.order {
		out[i] = c.nodes[id]
	}
	return out
}

// Edges returns edge records in their original order.
func (c *Context) Edges() []ir.IRObject {
	return slices.Clone(c.edges)
}

// Lines returns line records in insertion order.
func (c *Context) Lines() []ir.IRObject {
	out := make([]ir.IRObject, len(c.lineOrder))
	for i, id := range c.lineOrder {
		out[i] = c.lines[id]
	}
	return out
}

// Line returns the line record for id.
func (c *Context) Line(id string) (ir.IRObject, bool) {
	l, ok := c.lines[id]
	return l, ok
}

// hop is one traversable edge from a node.
type hop struct {
	to   string
	edge int
}

// hops returns every edge incident to id, ordered by neighbor insertion
// order and then by edge index.
func (c *Context) hops(id string) []hop {
	u, ok := c.index[id]
	if !ok {
		return nil
	}
	var out []hop
	for _, v := range c.neighborIDs(u) {
		lines := c.g.LinesBetween(u, v)
		var uids []int64
		for lines.Next() {
			uids = append(uids, lines.Line().ID())
		}
		slices.Sort(uids)
		for _, uid := range uids {
			out = append(out, hop{to: c.order[v], edge: int(uid)})
		}
	}
	return out
}

func (c *Context) neighborIDs(u int64) []int64 {
	ids := make([]int64, 0)
	for _, n := range gonum.NodesOf(c.g.From(u)) {
		ids = append(ids, n.ID())
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Neighbors returns the distinct stations adjacent to id, in insertion order.
func (c *Context) Neighbors(id string) []string {
	u, ok := c.index[id]
	if !ok {
		return nil
	}
	ids := c.neighborIDs(u)
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = c.order[v]
	}
	return out
}

// IncidentEdges returns the edge records touching id, in edge order.
func (c *Context) IncidentEdges(id string) []ir.IRObject {
	var idx []int
	for _, h := range c.hops(id) {
		idx = append(idx, h.edge)
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	out := make([]ir.IRObject, len(idx))
	for i, e := range idx {
		out[i] = c.edges[e]
	}
	return out
}

// Induced returns the Context restricted to the given node ids and the
// edges whose endpoints are both kept. Unknown ids are ignored; lines are
// carried over unchanged.
func (c *Context) Induced(ids []string) *Context {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if c.HasNode(id) {
			keep[id] = true
		}
	}

	var nodes []ir.IRObject
	for _, id := range c.order {
		if keep[id] {
			nodes = append(nodes, c.nodes[id])
		}
	}
	var edges []ir.IRObject
	for _, e := range c.edges {
		a, _ := e.String(FieldStation1)
		b, _ := e.String(FieldStation2)
		if keep[a] && keep[b] {
			edges = append(edges, e)
		}
	}

	sub, err := New(c.id, nodes, edges, c.Lines())
	if err != nil {
		// Every record already passed validation in c.
		panic(fmt.Sprintf("graph: induced subgraph: %v", err))
	}
	return sub
}
