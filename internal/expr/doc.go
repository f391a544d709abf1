// Package expr defines the operator algebra used to phrase questions.
//
// A question's answer is computed by a tree of Nodes. Each Node has a Kind
// with a fixed operand layout: nested nodes, inline literals, or (for MinBy)
// a single-argument key-function. Sampler leaves carry the value drawn when
// the tree was built, so one tree is enough to evaluate, persist and compile.
//
// Canonicalize turns a tree into the {kind: [operands]} form stored with each
// instance; Parse reads it back.
package expr
