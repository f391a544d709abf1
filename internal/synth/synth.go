package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/goombaio/namegenerator"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// ErrNames means no unique name could be found for a new entity.
var ErrNames = errors.New("synth: could not generate a unique name")

// uniqueTries bounds the redraws for a unique station name or line style.
const uniqueTries = 50

// Stats are the mean sizes of a generated network.
type Stats struct {
	Lines           int
	StationsPerLine int
}

// Presets.
var (
	DefaultStats = Stats{Lines: 22, StationsPerLine: 20}
	SmallStats   = Stats{Lines: 5, StationsPerLine: 5}
	TinyStats    = Stats{Lines: 2, StationsPerLine: 3}
)

// Preset returns the named stats: "default", "small" or "tiny".
func Preset(name string) (Stats, error) {
	switch name {
	case "", "default":
		return DefaultStats, nil
	case "small":
		return SmallStats, nil
	case "tiny":
		return TinyStats, nil
	}
	return Stats{}, fmt.Errorf("synth: unknown preset %q", name)
}

// Options controls network generation.
type Options struct {
	Stats Stats

	// Interchange is the chance that a station slot on a line reuses a
	// station already placed on another line.
	Interchange float64

	// IntNames names every station and line with a distinct integer drawn
	// from 0 .. 2n-1, leaving half the pool free for made-up names.
	IntNames bool
}

// DefaultOptions are the options used when none are given.
func DefaultOptions() Options {
	return Options{Stats: DefaultStats, Interchange: 0.15}
}

var surnames = []string{
	" street", " st", " road", " court", " grove", "bridge", " bridge", " lane", " way",
	" boulevard", " crossing", " square", "ham", " on trent", " upon thames", " international",
	" hospital", "neyland", "ington", "ton", "wich", " manor", " estate", " palace",
}

// Generator builds networks from a random source.
type Generator struct {
	rng   *rand.Rand
	opts  Options
	names namegenerator.Generator
	title cases.Caser
}

// New creates a Generator drawing everything from rng.
func New(rng *rand.Rand, opts Options) *Generator {
	return &Generator{
		rng:   rng,
		opts:  opts,
		names: namegenerator.NewNameGenerator(rng.Int63()),
		title: cases.Title(language.English),
	}
}

// station is a station under construction.
type station struct {
	rec ir.IRObject
}

type line struct {
	rec      ir.IRObject
	stations []*station
}

// Generate builds one network.
func (gen *Generator) Generate() (*graph.Context, error) {
	id, err := gen.uuid()
	if err != nil {
		return nil, err
	}

	lines, err := gen.lines()
	if err != nil {
		return nil, err
	}
	stations, err := gen.stations(lines)
	if err != nil {
		return nil, err
	}

	if gen.opts.IntNames {
		gen.intNames(lineRecords(lines))
		gen.intNames(stationRecords(stations))
	}

	var edges []ir.IRObject
	for _, l := range lines {
		for i := 1; i < len(l.stations); i++ {
			edge, err := gen.edge(l, l.stations[i-1], l.stations[i])
			if err != nil {
				return nil, err
			}
			edges = append(edges, edge)
		}
	}

	return graph.New(id, stationRecords(stations), edges, lineRecords(lines))
}

// gaussN draws round(gauss(base, 0.3 base)), at least floor.
func (gen *Generator) gaussN(base, floor int) int {
	n := int(math.Round(gen.rng.NormFloat64()*0.3*float64(base) + float64(base)))
	return max(n, floor)
}

func (gen *Generator) lines() ([]*line, error) {
	n := gen.gaussN(gen.opts.Stats.Lines, 1)
	// Lines are unique by (color, stroke).
	colors, _ := graph.LineDomain("color")
	strokes, _ := graph.LineDomain("stroke")
	if limit := len(colors.Values) * len(strokes.Values); n > limit {
		n = limit
	}

	seen := map[string]bool{}
	var out []*line
	for len(out) < n {
		var rec ir.IRObject
		for try := 0; ; try++ {
			if try == uniqueTries {
				return nil, fmt.Errorf("%w: line %d", ErrNames, len(out))
			}
			rec = gen.record(graph.LineProperties)
			key := ir.Key(rec["color"]) + "/" + ir.Key(rec["stroke"])
			if !seen[key] {
				seen[key] = true
				break
			}
		}
		if err := gen.identify(rec); err != nil {
			return nil, err
		}
		color, _ := rec.String("color")
		rec[graph.FieldName] = ir.IRString(gen.title.String(color + " " + gen.word()))
		out = append(out, &line{rec: rec})
	}
	return out, nil
}

func (gen *Generator) stations(lines []*line) ([]*station, error) {
	var all []*station
	names := map[string]bool{}

	for li, l := range lines {
		n := gen.gaussN(gen.opts.Stats.StationsPerLine, 2)
		onLine := map[*station]bool{}
		for len(l.stations) < n {
			if li > 0 && gen.rng.Float64() < gen.opts.Interchange {
				if s := gen.interchange(all, onLine); s != nil {
					l.stations = append(l.stations, s)
					onLine[s] = true
					continue
				}
			}
			s, err := gen.station(names)
			if err != nil {
				return nil, err
			}
			all = append(all, s)
			l.stations = append(l.stations, s)
			onLine[s] = true
		}
	}
	return all, nil
}

// interchange picks an existing station not yet on the current line.
func (gen *Generator) interchange(all []*station, onLine map[*station]bool) *station {
	var free []*station
	for _, s := range all {
		if !onLine[s] {
			free = append(free, s)
		}
	}
	if len(free) == 0 {
		return nil
	}
	return free[gen.rng.Intn(len(free))]
}

func (gen *Generator) station(names map[string]bool) (*station, error) {
	rec := gen.record(graph.StationProperties)
	for try := 0; ; try++ {
		if try == uniqueTries {
			return nil, fmt.Errorf("%w: station %d", ErrNames, len(names))
		}
		name := gen.title.String(gen.word() + surnames[gen.rng.Intn(len(surnames))])
		if !names[name] {
			names[name] = true
			rec[graph.FieldName] = ir.IRString(name)
			break
		}
	}
	if err := gen.identify(rec); err != nil {
		return nil, err
	}
	return &station{rec: rec}, nil
}

func (gen *Generator) edge(l *line, a, b *station) (ir.IRObject, error) {
	id, err := gen.uuid()
	if err != nil {
		return nil, err
	}
	return ir.Obj(
		ir.O(graph.FieldID, ir.IRString(id)),
		ir.O(graph.FieldStation1, a.rec[graph.FieldID]),
		ir.O("station1_name", a.rec[graph.FieldName]),
		ir.O(graph.FieldStation2, b.rec[graph.FieldID]),
		ir.O("station2_name", b.rec[graph.FieldName]),
		ir.O(graph.FieldLineID, l.rec[graph.FieldID]),
		ir.O(graph.FieldLineName, l.rec[graph.FieldName]),
		ir.O("line_color", l.rec["color"]),
		ir.O("line_stroke", l.rec["stroke"]),
	), nil
}

// intNames renames recs with shuffled integers from a pool twice their size.
func (gen *Generator) intNames(recs []ir.IRObject) {
	pool := gen.rng.Perm(2 * len(recs))
	for i, rec := range recs {
		rec[graph.FieldName] = ir.IRString(strconv.Itoa(pool[i]))
	}
}

func (gen *Generator) record(domains []graph.Domain) ir.IRObject {
	rec := ir.IRObject{}
	for _, d := range domains {
		rec[d.Name] = d.Values[gen.rng.Intn(len(d.Values))]
	}
	return rec
}

func (gen *Generator) identify(rec ir.IRObject) error {
	id, err := gen.uuid()
	if err != nil {
		return err
	}
	rec[graph.FieldID] = ir.IRString(id)
	return nil
}

func (gen *Generator) uuid() (string, error) {
	u, err := uuid.NewRandomFromReader(gen.rng)
	if err != nil {
		return "", fmt.Errorf("synth: id: %w", err)
	}
	return u.String(), nil
}

// word is the noun half of a generated "adjective-noun" name.
func (gen *Generator) word() string {
	name := gen.names.Generate()
	if _, noun, ok := strings.Cut(name, "-"); ok {
		return noun
	}
	return name
}

func lineRecords(lines []*line) []ir.IRObject {
	out := make([]ir.IRObject, len(lines))
	for i, l := range lines {
		out[i] = l.rec
	}
	return out
}

func stationRecords(stations []*station) []ir.IRObject {
	out := make([]ir.IRObject, len(stations))
	for i, s := range stations {
		out[i] = s.rec
	}
	return out
}
