// Package graph holds the read-only property graph that expressions are
// evaluated against.
//
// Stations are nodes, each edge is one hop of one line, and lines are kept
// as their own records. Parallel lines between the same two stations are
// separate edges, so adjacency is stored in a gonum undirected multigraph.
// A Context is built once and never mutated; restricting it (Induced)
// returns a new Context.
package graph
