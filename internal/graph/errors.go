package graph

import "errors"

// Sentinel errors for graph construction and lookups.
var (
	// ErrEmptyGraph indicates a graph with no nodes or no edges.
	ErrEmptyGraph = errors.New("graph has no nodes or no edges")

	// ErrNodeNotFound indicates a node id that is not in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateID indicates two nodes or two lines share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDanglingEdge indicates an edge endpoint that is not a node.
	ErrDanglingEdge = errors.New("edge endpoint does not exist")

	// ErrInvalidRecord indicates a record missing a required string field.
	ErrInvalidRecord = errors.New("invalid record")
)
