package expr

// Kind names an operator. The string value is the key used in canonical form.
type Kind string

// Leaf samplers. Each holds one literal: the value drawn when the tree was built.
const (
	KindStation             Kind = "Station"
	KindLine                Kind = "Line"
	KindArchitecture        Kind = "Architecture"
	KindMusic               Kind = "Music"
	KindCleanliness         Kind = "Cleanliness"
	KindSize                Kind = "Size"
	KindBoolean             Kind = "Boolean"
	KindFakeStationName     Kind = "FakeStationName"
	KindStationPropertyName Kind = "StationPropertyName"
)

// Projection.
const (
	KindConst Kind = "Const"
	KindPick  Kind = "Pick"
	KindPluck Kind = "Pluck"
	KindEqual Kind = "Equal"
)

// Traversal.
const (
	KindAllNodes              Kind = "AllNodes"
	KindAllEdges              Kind = "AllEdges"
	KindEdges                 Kind = "Edges"
	KindNodes                 Kind = "Nodes"
	KindNeighbors             Kind = "Neighbors"
	KindWithinHops            Kind = "WithinHops"
	KindShortestPath          Kind = "ShortestPath"
	KindShortestPathOnlyUsing Kind = "ShortestPathOnlyUsing"
	KindPaths                 Kind = "Paths"
	KindHasCycle              Kind = "HasCycle"
	KindFilterAdjacent        Kind = "FilterAdjacent"
	KindFilterHasPathTo       Kind = "FilterHasPathTo"
)

// Lists and aggregates.
const (
	KindCount           Kind = "Count"
	KindCountIfEqual    Kind = "CountIfEqual"
	KindNotEmpty        Kind = "NotEmpty"
	KindUnique          Kind = "Unique"
	KindMode            Kind = "Mode"
	KindSlidingPairs    Kind = "SlidingPairs"
	KindHasIntersection Kind = "HasIntersection"
	KindIntersection    Kind = "Intersection"
	KindFilter          Kind = "Filter"
	KindWithout         Kind = "Without"
	KindUnpackUnitList  Kind = "UnpackUnitList"
	KindSample          Kind = "Sample"
	KindFirst           Kind = "First"
	KindMinBy           Kind = "MinBy"
)

// Numeric.
const (
	KindSubtract Kind = "Subtract"
	KindRound    Kind = "Round"
)

// Key-function placeholders. LambdaArg is a real node kind; Lambda only
// appears in canonical form, wrapping a key-function body.
const (
	KindLambdaArg Kind = "LambdaArg"
	KindLambda    Kind = "Lambda"
)

// signature fixes the operand layout of a kind.
type signature struct {
	arity int
	// leaf kinds hold a single literal operand.
	leaf bool
	// fn is the index of the key-function operand, or -1.
	fn int
}

var signatures = map[Kind]signature{
	KindStation:             {arity: 1, leaf: true, fn: -1},
	KindLine:                {arity: 1, leaf: true, fn: -1},
	KindArchitecture:        {arity: 1, leaf: true, fn: -1},
	KindMusic:               {arity: 1, leaf: true, fn: -1},
	KindCleanliness:         {arity: 1, leaf: true, fn: -1},
	KindSize:                {arity: 1, leaf: true, fn: -1},
	KindBoolean:             {arity: 1, leaf: true, fn: -1},
	KindFakeStationName:     {arity: 1, leaf: true, fn: -1},
	KindStationPropertyName: {arity: 1, leaf: true, fn: -1},
	KindConst:               {arity: 1, leaf: true, fn: -1},
	KindLambdaArg:           {arity: 1, leaf: true, fn: -1},

	KindPick:  {arity: 2, fn: -1},
	KindPluck: {arity: 2, fn: -1},
	KindEqual: {arity: 2, fn: -1},

	KindAllNodes:              {arity: 0, fn: -1},
	KindAllEdges:              {arity: 0, fn: -1},
	KindEdges:                 {arity: 1, fn: -1},
	KindNodes:                 {arity: 1, fn: -1},
	KindNeighbors:             {arity: 1, fn: -1},
	KindWithinHops:            {arity: 2, fn: -1},
	KindShortestPath:          {arity: 3, fn: -1},
	KindShortestPathOnlyUsing: {arity: 4, fn: -1},
	KindPaths:                 {arity: 2, fn: -1},
	KindHasCycle:              {arity: 1, fn: -1},
	KindFilterAdjacent:        {arity: 2, fn: -1},
	KindFilterHasPathTo:       {arity: 2, fn: -1},

	KindCount:           {arity: 1, fn: -1},
	KindCountIfEqual:    {arity: 2, fn: -1},
	KindNotEmpty:        {arity: 1, fn: -1},
	KindUnique:          {arity: 1, fn: -1},
	KindMode:            {arity: 1, fn: -1},
	KindSlidingPairs:    {arity: 1, fn: -1},
	KindHasIntersection: {arity: 2, fn: -1},
	KindIntersection:    {arity: 2, fn: -1},
	KindFilter:          {arity: 3, fn: -1},
	KindWithout:         {arity: 2, fn: -1},
	KindUnpackUnitList:  {arity: 1, fn: -1},
	KindSample:          {arity: 2, fn: -1},
	KindFirst:           {arity: 1, fn: -1},
	KindMinBy:           {arity: 2, fn: 1},

	KindSubtract: {arity: 2, fn: -1},
	KindRound:    {arity: 1, fn: -1},
}

// Known reports whether k is a node kind.
func Known(k Kind) bool {
	_, ok := signatures[k]
	return ok
}

// IsLeaf reports whether k holds a single literal operand.
func IsLeaf(k Kind) bool {
	return signatures[k].leaf
}

// Arity returns the operand count of k, or -1 for unknown kinds.
func Arity(k Kind) int {
	sig, ok := signatures[k]
	if !ok {
		return -1
	}
	return sig.arity
}
