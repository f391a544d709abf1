package graph

import "github.com/roach88/gqa/internal/ir"

// Domain is a named property with a fixed set of values.
type Domain struct {
	Name   string
	Values []ir.IRValue
}

var booleans = []ir.IRValue{ir.IRBool(true), ir.IRBool(false)}

// StationProperties are the properties every generated station carries.
var StationProperties = []Domain{
	{Name: "disabled_access", Values: booleans},
	{Name: "has_rail", Values: booleans},
	{Name: "music", Values: ir.Strings("classical", "rock n roll", "rnb", "electronic", "country", "none", "swing", "pop")},
	{Name: "architecture", Values: ir.Strings("victorian", "modernist", "concrete", "glass", "art-deco", "new")},
	{Name: "size", Values: ir.Strings("tiny", "small", "medium-sized", "large", "massive")},
	{Name: "cleanliness", Values: ir.Strings("clean", "dirty", "shabby", "derilict", "rat-infested")},
}

// LineProperties are the properties every generated line carries.
var LineProperties = []Domain{
	{Name: "has_aircon", Values: booleans},
	{Name: "color", Values: ir.Strings("blue", "orange", "green", "red", "purple", "brown", "pink", "gray", "olive", "cyan")},
	{Name: "stroke", Values: ir.Strings("solid", "dashed", "dashdot", "dotted")},
	{Name: "built", Values: ir.Strings("50s", "60s", "70s", "80s", "90s", "00s", "recent")},
}

// StationDomain returns the station property with the given name.
func StationDomain(name string) (Domain, bool) {
	return lookup(StationProperties, name)
}

// LineDomain returns the line property with the given name.
func LineDomain(name string) (Domain, bool) {
	return lookup(LineProperties, name)
}

func lookup(domains []Domain, name string) (Domain, bool) {
	for _, d := range domains {
		if d.Name == name {
			return d, true
		}
	}
	return Domain{}, false
}
