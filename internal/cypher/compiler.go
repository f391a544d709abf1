package cypher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// phase is the kind of clause the query is currently building.
type phase int

const (
	// matching: pattern clauses append and predicates buffer.
	matching phase = iota
	// projecting: the last clause derived new values from bound ones.
	projecting
)

func (p phase) String() string {
	if p == projecting {
		return "PROJECTING"
	}
	return "MATCHING"
}

// term is a compiled operand: a value variable or inline literal text.
type term struct {
	text  string
	isVar bool
	lit   ir.IRValue
}

type clause struct {
	text string
	// restated lists the variables carried forward by a WITH clause.
	restated []string
}

// compiler holds the state of one compilation. It is not reused.
type compiler struct {
	phase phase
	vars  int
	tmps  int

	// scope holds value variables in the order they were minted.
	scope []string
	// retired maps a variable to the index of the clause that consumed it.
	retired map[string]int

	where []string
	// pending variables are retired once the WHERE they appear in is flushed.
	pending []term

	clauses []clause
}

// Compile translates a canonical tree into a Cypher query.
func Compile(form ir.IRValue) (string, error) {
	n, err := expr.Parse(form)
	if err != nil {
		return "", fmt.Errorf("cypher: %w", err)
	}
	return CompileNode(n)
}

// CompileNode translates a tree into a Cypher query.
func CompileNode(n *expr.Node) (string, error) {
	c := newCompiler()
	if err := c.run(n); err != nil {
		return "", err
	}
	return c.String(), nil
}

func newCompiler() *compiler {
	return &compiler{retired: map[string]int{}}
}

func (c *compiler) run(n *expr.Node) error {
	result, err := c.compile(n)
	if err != nil {
		return err
	}
	c.flush()
	if result.isVar {
		if _, gone := c.retired[result.text]; gone {
			return fmt.Errorf("%w: %s in RETURN", ErrRetiredVariable, result.text)
		}
	}
	c.emit("RETURN "+result.text, nil)
	return nil
}

func (c *compiler) String() string {
	lines := make([]string, len(c.clauses))
	for i, cl := range c.clauses {
		lines[i] = cl.text
	}
	return strings.Join(lines, "\n")
}

func (c *compiler) compile(n *expr.Node) (term, error) {
	kind := n.Kind()
	if expr.IsLeaf(kind) {
		return c.leaf(n)
	}

	args := make([]term, n.Len())
	for i := range n.Len() {
		switch op := n.Operand(i).(type) {
		case *expr.Node:
			t, err := c.compile(op)
			if err != nil {
				return term{}, err
			}
			args[i] = t
		case expr.Literal:
			t, err := literal(kind, op.Value)
			if err != nil {
				return term{}, err
			}
			args[i] = t
		case expr.Func:
			return term{}, unsupported(kind, "key-functions have no translation")
		}
	}

	switch kind {
	case expr.KindAllNodes:
		return c.match(nil, func(v string) string { return "(" + v + ":NODE)" }), nil
	case expr.KindAllEdges:
		return c.match(nil, func(v string) string { return "()-[" + v + ":EDGE]->()" }), nil

	case expr.KindEdges:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.match(args, func(v string) string { return "(" + a + ")-[" + v + ":EDGE]-()" }), nil
	case expr.KindNodes:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.match(args, func(v string) string { return "(" + v + ":NODE)-[" + a + "]-()" }), nil
	case expr.KindNeighbors:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.match(args, func(v string) string { return "(" + a + ")-[:EDGE]-(" + v + ":NODE)" }), nil

	case expr.KindShortestPath:
		// Only the reachable case translates; the fallback has no
		// counterpart and is dropped.
		return c.shortestPath(kind, args[0], args[1])

	case expr.KindFilter:
		return c.filter(kind, args[0], args[1], args[2])

	case expr.KindPick, expr.KindPluck:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		key, err := property(kind, args[1])
		if err != nil {
			return term{}, err
		}
		return c.project(args[:1], a+"."+key, false), nil

	case expr.KindEqual:
		return c.project(args, args[0].text+" = "+args[1].text, false), nil
	case expr.KindSubtract:
		return c.project(args, args[0].text+" - "+args[1].text, false), nil

	case expr.KindCount:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.project(args, "count("+a+")", false), nil
	case expr.KindNotEmpty:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.project(args, "count("+a+") > 0", false), nil
	case expr.KindFirst:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.project(args, "head(collect("+a+"))", false), nil
	case expr.KindRound:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.project(args, "toInteger(round(toFloat("+a+")))", false), nil
	case expr.KindUnique:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		return c.project(args, a, true), nil

	case expr.KindCountIfEqual:
		a, err := variable(kind, args[0])
		if err != nil {
			return term{}, err
		}
		tmp := c.newTmp()
		// The target stays a grouping key for this clause.
		v := c.project(args[:1], fmt.Sprintf("size([%s IN collect(%s) WHERE %s = %s])", tmp, a, tmp, args[1].text), false)
		c.retire(args[1])
		return v, nil

	case expr.KindHasIntersection:
		a, b, err := variables(kind, args[0], args[1])
		if err != nil {
			return term{}, err
		}
		tmp := c.newTmp()
		return c.project(args, fmt.Sprintf("size([%s IN collect(%s) WHERE %s IN collect(%s)]) > 0", tmp, a, tmp, b), false), nil
	case expr.KindIntersection:
		a, b, err := variables(kind, args[0], args[1])
		if err != nil {
			return term{}, err
		}
		tmp := c.newTmp()
		list := c.project(args, fmt.Sprintf("[%s IN collect(DISTINCT %s) WHERE %s IN collect(%s)]", tmp, a, tmp, b), false)
		return c.unwind(list), nil

	default:
		return term{}, unsupported(kind, "")
	}
}

func (c *compiler) leaf(n *expr.Node) (term, error) {
	kind := n.Kind()
	v, _ := n.Literal()
	switch kind {
	case expr.KindStation:
		return c.entity(kind, "NODE", v)
	case expr.KindLine:
		return c.entity(kind, "LINE", v)
	case expr.KindLambdaArg:
		return term{}, unsupported(kind, "key-functions have no translation")
	default:
		return literal(kind, v)
	}
}

// entity matches a station or line by name.
func (c *compiler) entity(kind expr.Kind, label string, v ir.IRValue) (term, error) {
	rec, ok := v.(ir.IRObject)
	if !ok {
		return term{}, unsupported(kind, "expected a record, got %s", ir.TypeName(v))
	}
	name, ok := rec.String(graph.FieldName)
	if !ok {
		return term{}, unsupported(kind, "record has no name")
	}
	t := c.match(nil, func(v string) string { return "(" + v + ":" + label + ")" })
	c.where = append(c.where, t.text+".name = "+quote(name))
	return t, nil
}

func (c *compiler) shortestPath(kind expr.Kind, from, to term) (term, error) {
	a, b, err := variables(kind, from, to)
	if err != nil {
		return term{}, err
	}
	// The path match is the last pattern before the UNWIND leaves MATCHING,
	// so buffered predicates are flushed ahead of it.
	c.flush()
	c.phase = matching
	c.retire(from, to)
	tmp := c.newTmp()
	c.emit(fmt.Sprintf("MATCH %s = shortestPath((%s)-[*]-(%s))", tmp, a, b), nil)
	v := c.newVar()
	c.emit("UNWIND nodes("+tmp+") AS "+v, nil)
	c.phase = projecting
	return term{text: v, isVar: true}, nil
}

// filter buffers a predicate on list. The list variable passes through;
// a variable target is retired once the predicate is flushed.
func (c *compiler) filter(kind expr.Kind, list, key, target term) (term, error) {
	a, err := variable(kind, list)
	if err != nil {
		return term{}, err
	}
	prop, err := property(kind, key)
	if err != nil {
		return term{}, err
	}
	c.where = append(c.where, a+"."+prop+" = "+target.text)
	if target.isVar {
		c.pending = append(c.pending, target)
	}
	return list, nil
}

// match appends a pattern clause binding a fresh variable. Predicates keep
// buffering while the query is matching; coming from a projection they are
// flushed onto it before MATCHING is re-entered.
func (c *compiler) match(consumed []term, pattern func(v string) string) term {
	if c.phase == projecting {
		c.flush()
		c.phase = matching
	}
	c.retire(consumed...)
	v := c.newVar()
	c.emit("MATCH "+pattern(v), nil)
	return term{text: v, isVar: true}
}

// project binds expression to a fresh variable in a WITH clause that
// restates every live variable. consumed variables are retired first.
func (c *compiler) project(consumed []term, expression string, distinct bool) term {
	c.flush()
	c.retire(consumed...)
	live := c.live()
	v := c.newVar()

	items := append(live[:len(live):len(live)], expression+" AS "+v)
	keyword := "WITH "
	if distinct {
		keyword = "WITH DISTINCT "
	}
	c.emit(keyword+strings.Join(items, ", "), live)
	c.phase = projecting
	return term{text: v, isVar: true}
}

func (c *compiler) unwind(list term) term {
	c.flush()
	c.retire(list)
	v := c.newVar()
	c.emit("UNWIND "+list.text+" AS "+v, nil)
	c.phase = projecting
	return term{text: v, isVar: true}
}

// flush emits buffered predicates as one WHERE clause. WHERE cannot follow
// UNWIND, so a plain WITH is inserted first in that case.
func (c *compiler) flush() {
	if len(c.where) == 0 {
		return
	}
	if n := len(c.clauses); n > 0 && strings.HasPrefix(c.clauses[n-1].text, "UNWIND ") {
		live := c.live()
		c.emit("WITH "+strings.Join(live, ", "), live)
	}
	c.emit("WHERE "+strings.Join(c.where, " AND "), nil)
	c.where = nil
	c.retire(c.pending...)
	c.pending = nil
}

func (c *compiler) emit(text string, restated []string) {
	c.clauses = append(c.clauses, clause{text: text, restated: restated})
}

func (c *compiler) newVar() string {
	c.vars++
	v := "var" + strconv.Itoa(c.vars)
	c.scope = append(c.scope, v)
	return v
}

func (c *compiler) newTmp() string {
	c.tmps++
	return "tmp" + strconv.Itoa(c.tmps)
}

func (c *compiler) retire(ts ...term) {
	for _, t := range ts {
		if !t.isVar {
			continue
		}
		if _, done := c.retired[t.text]; !done {
			c.retired[t.text] = len(c.clauses)
		}
	}
}

func (c *compiler) live() []string {
	out := make([]string, 0, len(c.scope))
	for _, v := range c.scope {
		if _, gone := c.retired[v]; !gone {
			out = append(out, v)
		}
	}
	return out
}

func variable(kind expr.Kind, t term) (string, error) {
	if !t.isVar {
		return "", unsupported(kind, "operand %s is a literal, not a pattern variable", t.text)
	}
	return t.text, nil
}

func variables(kind expr.Kind, a, b term) (string, string, error) {
	x, err := variable(kind, a)
	if err != nil {
		return "", "", err
	}
	y, err := variable(kind, b)
	if err != nil {
		return "", "", err
	}
	return x, y, nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// property returns a literal key as a property name, backtick-quoted when
// it is not a plain identifier.
func property(kind expr.Kind, t term) (string, error) {
	s, ok := t.lit.(ir.IRString)
	if t.isVar || !ok {
		return "", unsupported(kind, "property key must be a string literal")
	}
	if identifier.MatchString(string(s)) {
		return string(s), nil
	}
	return "`" + strings.ReplaceAll(string(s), "`", "``") + "`", nil
}

func literal(kind expr.Kind, v ir.IRValue) (term, error) {
	text, err := encode(v)
	if err != nil {
		return term{}, unsupported(kind, "%v", err)
	}
	return term{text: text, lit: v}, nil
}

// encode renders a value as a Cypher literal.
func encode(v ir.IRValue) (string, error) {
	switch x := v.(type) {
	case ir.IRNull:
		return "null", nil
	case ir.IRString:
		return quote(string(x)), nil
	case ir.IRInt:
		return strconv.FormatInt(int64(x), 10), nil
	case ir.IRBool:
		return strconv.FormatBool(bool(x)), nil
	case ir.IRArray:
		parts := make([]string, len(x))
		for i, e := range x {
			s, err := encode(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", fmt.Errorf("no literal form for %s", ir.TypeName(v))
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
