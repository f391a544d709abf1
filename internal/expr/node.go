package expr

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/gqa/internal/ir"
)

// Construction errors.
var (
	ErrUnknownKind = errors.New("unknown operator kind")
	ErrArity       = errors.New("wrong number of operands")
	ErrOperand     = errors.New("invalid operand")
	ErrUnbound     = errors.New("lambda argument used outside its function")
	ErrMalformed   = errors.New("malformed canonical form")
)

// Operand is one input to a Node: a *Node, a Literal, or a Func.
type Operand interface {
	operand()
}

// Literal is an inline constant.
type Literal struct {
	Value ir.IRValue
}

func (Literal) operand() {}

// Func is a single-argument key-function. Its body is an ordinary tree in
// which LambdaArg(param) stands for the argument.
type Func struct {
	param string
	body  *Node
}

func (Func) operand() {}

// Param returns the argument name.
func (f Func) Param() string { return f.param }

// Body returns the function body.
func (f Func) Body() *Node { return f.body }

// Node is one operator application. Nodes are immutable once built.
type Node struct {
	kind     Kind
	operands []Operand
}

func (*Node) operand() {}

// Kind returns the operator kind.
func (n *Node) Kind() Kind { return n.kind }

// Len returns the number of operands.
func (n *Node) Len() int { return len(n.operands) }

// Operand returns the i-th operand.
func (n *Node) Operand(i int) Operand { return n.operands[i] }

// Operands returns a copy of the operand list.
func (n *Node) Operands() []Operand { return slices.Clone(n.operands) }

// Literal returns the literal held by a leaf node.
func (n *Node) Literal() (ir.IRValue, bool) {
	if !IsLeaf(n.kind) || len(n.operands) != 1 {
		return nil, false
	}
	lit, ok := n.operands[0].(Literal)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}

// New builds a node after checking the operand layout for kind.
// Operands are checked shallowly; use Validate for a whole tree.
func New(kind Kind, operands ...Operand) (*Node, error) {
	sig, ok := signatures[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(operands) != sig.arity {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", kind, ErrArity, len(operands), sig.arity)
	}
	for i, op := range operands {
		if err := checkOperand(kind, sig, i, op); err != nil {
			return nil, err
		}
	}
	return &Node{kind: kind, operands: slices.Clone(operands)}, nil
}

func checkOperand(kind Kind, sig signature, i int, op Operand) error {
	switch o := op.(type) {
	case nil:
		return fmt.Errorf("%s operand %d: %w: nil", kind, i, ErrOperand)
	case *Node:
		if o == nil {
			return fmt.Errorf("%s operand %d: %w: nil node", kind, i, ErrOperand)
		}
		if sig.leaf || sig.fn == i {
			return fmt.Errorf("%s operand %d: %w: unexpected node %s", kind, i, ErrOperand, o.kind)
		}
	case Literal:
		if o.Value == nil {
			return fmt.Errorf("%s operand %d: %w: nil literal", kind, i, ErrOperand)
		}
		if sig.fn == i {
			return fmt.Errorf("%s operand %d: %w: expected function", kind, i, ErrOperand)
		}
		if kind == KindLambdaArg {
			if _, ok := o.Value.(ir.IRString); !ok {
				return fmt.Errorf("%s: %w: name must be a string", kind, ErrOperand)
			}
		}
	case Func:
		if sig.fn != i {
			return fmt.Errorf("%s operand %d: %w: unexpected function", kind, i, ErrOperand)
		}
		if o.body == nil {
			return fmt.Errorf("%s operand %d: %w: function without body", kind, i, ErrOperand)
		}
	default:
		return fmt.Errorf("%s operand %d: %w: %T", kind, i, ErrOperand, op)
	}
	return nil
}

// MustNew is New that panics. Builders use it with fixed layouts.
func MustNew(kind Kind, operands ...Operand) *Node {
	n, err := New(kind, operands...)
	if err != nil {
		panic(err)
	}
	return n
}

// Validate checks the whole tree: every node's layout, and that every
// LambdaArg sits inside a function that binds its name.
func Validate(n *Node) error {
	return validate(n, nil)
}

func validate(n *Node, bound []string) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrOperand)
	}
	sig, ok := signatures[n.kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, n.kind)
	}
	if len(n.operands) != sig.arity {
		return fmt.Errorf("%s: %w: got %d, want %d", n.kind, ErrArity, len(n.operands), sig.arity)
	}
	for i, op := range n.operands {
		if err := checkOperand(n.kind, sig, i, op); err != nil {
			return err
		}
		switch o := op.(type) {
		case *Node:
			if err := validate(o, bound); err != nil {
				return err
			}
		case Func:
			if err := validate(o.body, append(slices.Clone(bound), o.param)); err != nil {
				return fmt.Errorf("%s function: %w", n.kind, err)
			}
		}
	}
	if n.kind == KindLambdaArg {
		name := string(n.operands[0].(Literal).Value.(ir.IRString))
		if !slices.Contains(bound, name) {
			return fmt.Errorf("%w: %q", ErrUnbound, name)
		}
	}
	return nil
}
