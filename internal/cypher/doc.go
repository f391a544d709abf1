// Package cypher translates canonical expression trees into Cypher queries
// and graphs into Cypher CREATE statements.
//
// The translation covers a subset of the operator algebra. Trees outside it
// fail with ErrNotTranslatable, and the question is kept without a query.
//
// Compilation walks the tree in post-order, like the interpreter, and each
// operator leaves exactly one value variable (var1, var2, ...) holding its
// rows. Pattern operators append MATCH clauses; derived values are bound in
// WITH clauses that restate every variable still in use. Predicates from
// Filter are buffered and flushed as a single WHERE before the next clause.
// A variable consumed by an aggregate is retired and never restated.
package cypher
