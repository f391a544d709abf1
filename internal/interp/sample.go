package interp

import (
	"math/rand"
	"strconv"

	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// Sampler draws a leaf value from a graph or a fixed domain.
type Sampler func(rng *rand.Rand, g *graph.Context) (ir.IRValue, error)

var samplers = map[expr.Kind]Sampler{
	expr.KindStation:             sampleStation,
	expr.KindLine:                sampleLine,
	expr.KindArchitecture:        sampleDomain("architecture"),
	expr.KindMusic:               sampleDomain("music"),
	expr.KindCleanliness:         sampleDomain("cleanliness"),
	expr.KindSize:                sampleDomain("size"),
	expr.KindBoolean:             sampleBoolean,
	expr.KindFakeStationName:     sampleFakeStationName,
	expr.KindStationPropertyName: samplePropertyName,
}

// Samplable reports whether kind has a sampler.
func Samplable(kind expr.Kind) bool {
	_, ok := samplers[kind]
	return ok
}

// Draw samples a value for kind and returns it as a leaf node.
func Draw(kind expr.Kind, rng *rand.Rand, g *graph.Context) (*expr.Node, error) {
	s, ok := samplers[kind]
	if !ok {
		return nil, newError(ErrCodeMalformed, kind, "no sampler for kind")
	}
	v, err := s(rng, g)
	if err != nil {
		return nil, err
	}
	return expr.Leaf(kind, v), nil
}

func sampleStation(rng *rand.Rand, g *graph.Context) (ir.IRValue, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, newError(ErrCodeEmpty, expr.KindStation, "graph has no stations")
	}
	return nodes[rng.Intn(len(nodes))], nil
}

func sampleLine(rng *rand.Rand, g *graph.Context) (ir.IRValue, error) {
	lines := g.Lines()
	if len(lines) == 0 {
		return nil, newError(ErrCodeEmpty, expr.KindLine, "graph has no lines")
	}
	return lines[rng.Intn(len(lines))], nil
}

func sampleDomain(property string) Sampler {
	d, ok := graph.StationDomain(property)
	if !ok {
		panic("interp: unknown station property " + property)
	}
	return func(rng *rand.Rand, _ *graph.Context) (ir.IRValue, error) {
		return d.Values[rng.Intn(len(d.Values))], nil
	}
}

func sampleBoolean(rng *rand.Rand, _ *graph.Context) (ir.IRValue, error) {
	return ir.IRBool(rng.Intn(2) == 0), nil
}

func samplePropertyName(rng *rand.Rand, _ *graph.Context) (ir.IRValue, error) {
	props := graph.StationProperties
	return ir.IRString(props[rng.Intn(len(props))].Name), nil
}

// sampleFakeStationName draws a name no station carries. Candidates are the
// integers 0 .. 2n-1 for a graph of n stations, matching the pool that
// integer-named graphs draw real names from.
func sampleFakeStationName(rng *rand.Rand, g *graph.Context) (ir.IRValue, error) {
	var free []string
	for i := range 2 * g.NodeCount() {
		name := strconv.Itoa(i)
		if !g.HasName(name) {
			free = append(free, name)
		}
	}
	if len(free) == 0 {
		return nil, newError(ErrCodeNamePoolExhausted, expr.KindFakeStationName,
			"all %d candidate names are in use", 2*g.NodeCount())
	}
	return ir.IRString(free[rng.Intn(len(free))]), nil
}
