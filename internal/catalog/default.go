package catalog

import (
	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// Groups.
const (
	GroupStation     = "Station"
	GroupStationLine = "StationLine"
	GroupRoute       = "Route"
	GroupLine        = "Line"
	GroupTopology    = "Topology"
)

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultTemplates()...)
	if err != nil {
		panic("catalog: invalid built-in template: " + err.Error())
	}
	return c
}

func defaultTemplates() []Template {
	return []Template{
		{
			Name:           "StationShortestCount",
			Group:          GroupRoute,
			Placeholders:   []expr.Kind{expr.KindStation, expr.KindStation},
			English:        "How many stations are between %s and %s?",
			Build:          func(a []*expr.Node) *expr.Node { return expr.CountNodesBetween(expr.ShortestPath(a[0], a[1], expr.List())) },
			ArgumentsValid: distinct,
			AnswerValid:    nonNegative,
		},
		{
			Name:         "StationLine",
			Group:        GroupStationLine,
			Placeholders: []expr.Kind{expr.KindStation},
			English:      "Which lines is %s on?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.GetLines(a[0]) },
		},
		{
			Name:         "StationLineCount",
			Group:        GroupStationLine,
			Placeholders: []expr.Kind{expr.KindStation},
			English:      "How many lines is %s on?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.Count(expr.GetLines(a[0])) },
		},
		{
			Name:         "StationCleanliness",
			Group:        GroupStation,
			Placeholders: []expr.Kind{expr.KindStation},
			English:      "How clean is %s?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.Pick(a[0], expr.Str("cleanliness")) },
		},
		{
			Name:           "StationSameLine",
			Group:          GroupStationLine,
			Placeholders:   []expr.Kind{expr.KindStation, expr.KindStation},
			English:        "Are %s and %s on the same line?",
			Build:          func(a []*expr.Node) *expr.Node { return expr.HasIntersection(expr.GetLines(a[0]), expr.GetLines(a[1])) },
			ArgumentsValid: distinct,
		},
		{
			Name:         "LineStations",
			Group:        GroupLine,
			Placeholders: []expr.Kind{expr.KindLine},
			English:      "Which stations does %s pass through?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.Pluck(expr.Unique(stationsOn(a[0])), expr.Str("name")) },
		},
		{
			Name:         "LineTotalArchitectureCount",
			Group:        GroupLine,
			Placeholders: []expr.Kind{expr.KindLine},
			English:      "How many architecture styles does %s pass through?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.Count(expr.Unique(expr.Pluck(stationsOn(a[0]), expr.Str("architecture"))))
			},
		},
		{
			Name:         "LineArchitectureCount",
			Group:        GroupLine,
			Placeholders: []expr.Kind{expr.KindArchitecture, expr.KindLine},
			English:      "How many %s stations are on the %s line?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.CountIfEqual(expr.Pluck(expr.Unique(stationsOn(a[1])), expr.Str("architecture")), a[0])
			},
		},
		{
			Name:         "LineMostArchitecture",
			Group:        GroupLine,
			Placeholders: []expr.Kind{expr.KindArchitecture},
			English:      "Which line has the most %s stations?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.Mode(expr.Pluck(expr.Edges(expr.Filter(expr.AllNodes(), expr.Str("architecture"), a[0])), expr.Str("line_name")))
			},
		},
		{
			Name:         "NearestStationDisabledAccess",
			Group:        GroupRoute,
			Placeholders: []expr.Kind{expr.KindStation},
			English:      "What's the nearest station to %s with disabled access?",
			Build: func(a []*expr.Node) *expr.Node {
				from := a[0]
				candidates := expr.FilterHasPathTo(expr.Filter(expr.AllNodes(), expr.Str("disabled_access"), expr.Bool(true)), from)
				return expr.Pick(expr.MinBy(candidates, expr.Fn("y", func(y *expr.Node) *expr.Node {
					return expr.Count(expr.ShortestPath(from, y, expr.List()))
				})), expr.Str("name"))
			},
		},
		{
			Name:         "NearestByProperties",
			Group:        GroupTopology,
			Placeholders: []expr.Kind{expr.KindArchitecture, expr.KindCleanliness, expr.KindMusic},
			English:      "Which %s station is beside the %s station with %s music?",
			Build: func(a []*expr.Node) *expr.Node {
				styled := expr.Filter(expr.AllNodes(), expr.Str("architecture"), a[0])
				other := expr.Filter(expr.Filter(expr.AllNodes(), expr.Str("cleanliness"), a[1]), expr.Str("music"), a[2])
				return expr.Pick(expr.First(expr.UnpackUnitList(expr.FilterAdjacent(styled, other))), expr.Str("name"))
			},
		},
		{
			Name:           "StationAdjacent",
			Group:          GroupTopology,
			Placeholders:   []expr.Kind{expr.KindStation, expr.KindStation},
			English:        "Are %s and %s adjacent?",
			Build:          func(a []*expr.Node) *expr.Node { return expr.Adjacent(a[0], a[1]) },
			ArgumentsValid: distinct,
		},
		{
			Name:         "StationPropertyLookup",
			Group:        GroupStation,
			Placeholders: []expr.Kind{expr.KindStationPropertyName, expr.KindStation},
			English:      "What is the %s of %s?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.Pick(a[1], a[0]) },
		},
		{
			Name:         "StationExists",
			Group:        GroupStation,
			Placeholders: []expr.Kind{expr.KindFakeStationName},
			English:      "Is there a station called %s?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.NotEmpty(expr.Filter(expr.AllNodes(), expr.Str("name"), a[0]))
			},
		},
		{
			Name:         "StationWithinHops",
			Group:        GroupTopology,
			Placeholders: []expr.Kind{expr.KindStation},
			English:      "How many stations are at most two stops from %s?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.Count(expr.WithinHops(a[0], expr.Int(2))) },
		},
		{
			Name:         "StationHasCycle",
			Group:        GroupTopology,
			Placeholders: []expr.Kind{expr.KindStation},
			English:      "Starting from %s, can you ride in a loop without repeating a stretch of track?",
			Build:        func(a []*expr.Node) *expr.Node { return expr.HasCycle(a[0]) },
		},
		{
			Name:         "StationShortestAvoidingCount",
			Group:        GroupRoute,
			Placeholders: []expr.Kind{expr.KindStation, expr.KindStation, expr.KindCleanliness},
			English:      "How many stations are between %s and %s if you avoid %s stations?",
			Build: func(a []*expr.Node) *expr.Node {
				allowed := expr.Without(expr.AllNodes(), expr.Filter(expr.AllNodes(), expr.Str("cleanliness"), a[2]))
				return expr.CountNodesBetween(expr.ShortestPathOnlyUsing(a[0], a[1], allowed, expr.List()))
			},
			ArgumentsValid: distinct,
			AnswerValid:    nonNegative,
		},
		{
			Name:           "StationLinesInCommon",
			Group:          GroupStationLine,
			Placeholders:   []expr.Kind{expr.KindStation, expr.KindStation},
			English:        "Which lines serve both %s and %s?",
			Build:          func(a []*expr.Node) *expr.Node { return expr.Intersection(expr.GetLines(a[0]), expr.GetLines(a[1])) },
			ArgumentsValid: distinct,
		},
		{
			Name:         "LineSizeCount",
			Group:        GroupLine,
			Placeholders: []expr.Kind{expr.KindSize, expr.KindLine},
			English:      "How many %s stations are on the %s line?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.CountIfEqual(expr.Pluck(expr.Unique(stationsOn(a[1])), expr.Str("size")), a[0])
			},
		},
		{
			Name:         "StationDisabledAccessCount",
			Group:        GroupStation,
			Placeholders: []expr.Kind{expr.KindBoolean},
			English:      "How many stations have disabled_access set to %s?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.Count(expr.Filter(expr.AllNodes(), expr.Str("disabled_access"), a[0]))
			},
		},
		{
			Name:         "RouteDisabledAccessCount",
			Group:        GroupRoute,
			Placeholders: []expr.Kind{expr.KindStation, expr.KindStation},
			English:      "How many stations with disabled access are on the shortest route from %s to %s?",
			Build: func(a []*expr.Node) *expr.Node {
				return expr.Count(expr.Filter(expr.ShortestPath(a[0], a[1], expr.List()), expr.Str("disabled_access"), expr.Bool(true)))
			},
			ArgumentsValid: connected,
		},
	}
}

// stationsOn is every endpoint of every edge on line l. Interior stations
// appear twice.
func stationsOn(l *expr.Node) *expr.Node {
	return expr.Nodes(expr.Filter(expr.AllEdges(), expr.Str(graph.FieldLineID), expr.Pick(l, expr.Str(graph.FieldID))))
}

func distinct(_ *graph.Context, args []ir.IRValue) bool {
	return !ir.Equal(args[0], args[1])
}

func connected(g *graph.Context, args []ir.IRValue) bool {
	a, _ := args[0].(ir.IRObject).String(graph.FieldID)
	b, _ := args[1].(ir.IRObject).String(graph.FieldID)
	return a != b && g.HasPath(a, b)
}

func nonNegative(_ *graph.Context, answer ir.IRValue) bool {
	n, ok := answer.(ir.IRInt)
	return ok && n >= 0
}
