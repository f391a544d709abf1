package expr

import (
	"fmt"

	"github.com/roach88/gqa/internal/ir"
)

// Canonicalize converts a tree to its canonical form: a single-key record
// {kind: [operand, ...]}. Nested nodes are canonicalized recursively,
// literals are inlined, and key-functions become {"Lambda": [body]} with
// their argument appearing as {"LambdaArg": [name]}.
func Canonicalize(n *Node) ir.IRObject {
	ops := make(ir.IRArray, len(n.operands))
	for i, op := range n.operands {
		ops[i] = canonicalOperand(op)
	}
	return ir.IRObject{string(n.kind): ops}
}

func canonicalOperand(op Operand) ir.IRValue {
	switch o := op.(type) {
	case *Node:
		return Canonicalize(o)
	case Literal:
		return o.Value
	case Func:
		return ir.IRObject{string(KindLambda): ir.IRArray{Canonicalize(o.body)}}
	default:
		panic(fmt.Sprintf("expr: unknown operand type %T", op))
	}
}

// Parse rebuilds a tree from its canonical form.
//
// Leaf operands and any position that is not a node are read as literals.
// A key-function's parameter name is recovered from the first LambdaArg in
// its body; a body that never uses its argument gets the name "x".
// The result is validated as a whole.
func Parse(form ir.IRValue) (*Node, error) {
	n, err := parseNode(form)
	if err != nil {
		return nil, err
	}
	if err := Validate(n); err != nil {
		return nil, err
	}
	return n, nil
}

func parseNode(form ir.IRValue) (*Node, error) {
	kind, raw, err := split(form)
	if err != nil {
		return nil, err
	}
	if kind == KindLambda {
		return nil, fmt.Errorf("%w: Lambda outside a function position", ErrMalformed)
	}
	sig, ok := signatures[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(raw) != sig.arity {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", kind, ErrArity, len(raw), sig.arity)
	}

	ops := make([]Operand, len(raw))
	for i, v := range raw {
		switch {
		case sig.leaf:
			ops[i] = Lit(v)
		case sig.fn == i:
			f, err := parseFunc(v)
			if err != nil {
				return nil, fmt.Errorf("%s operand %d: %w", kind, i, err)
			}
			ops[i] = f
		case isNodeForm(v):
			child, err := parseNode(v)
			if err != nil {
				return nil, err
			}
			ops[i] = child
		default:
			ops[i] = Lit(v)
		}
	}
	return New(kind, ops...)
}

func parseFunc(v ir.IRValue) (Func, error) {
	kind, raw, err := split(v)
	if err != nil {
		return Func{}, err
	}
	if kind != KindLambda || len(raw) != 1 {
		return Func{}, fmt.Errorf("%w: expected {\"Lambda\": [body]}", ErrMalformed)
	}
	body, err := parseNode(raw[0])
	if err != nil {
		return Func{}, err
	}
	param, ok := firstArg(body)
	if !ok {
		param = "x"
	}
	return Func{param: param, body: body}, nil
}

// firstArg finds the first LambdaArg name in n, not descending into
// nested functions.
func firstArg(n *Node) (string, bool) {
	if n.kind == KindLambdaArg {
		s, _ := n.operands[0].(Literal).Value.(ir.IRString)
		return string(s), true
	}
	for _, op := range n.operands {
		if child, ok := op.(*Node); ok {
			if name, found := firstArg(child); found {
				return name, true
			}
		}
	}
	return "", false
}

func split(v ir.IRValue) (Kind, ir.IRArray, error) {
	obj, ok := v.(ir.IRObject)
	if !ok || len(obj) != 1 {
		return "", nil, fmt.Errorf("%w: expected single-key record, got %s", ErrMalformed, ir.TypeName(v))
	}
	for k, val := range obj {
		ops, ok := val.(ir.IRArray)
		if !ok {
			return "", nil, fmt.Errorf("%w: operands of %s must be a list", ErrMalformed, k)
		}
		return Kind(k), ops, nil
	}
	panic("unreachable")
}

// isNodeForm reports whether v looks like a canonical node: a single-key
// record whose key is a known kind and whose value is a list.
func isNodeForm(v ir.IRValue) bool {
	obj, ok := v.(ir.IRObject)
	if !ok || len(obj) != 1 {
		return false
	}
	for k, val := range obj {
		_, isList := val.(ir.IRArray)
		return isList && Known(Kind(k))
	}
	return false
}
