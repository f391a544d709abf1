// Package interp evaluates expression trees against a property graph.
//
// Evaluation is strict post-order. Leaf kinds hold values drawn when the
// tree was built (see Draw); evaluating a leaf returns that value. Failures
// are *EvalError values classed either as unanswerable, meaning the drawn
// arguments admit no single answer, or as defects in the tree or data.
package interp
