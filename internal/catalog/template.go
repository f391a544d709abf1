package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/gqa/internal/expr"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/interp"
	"github.com/roach88/gqa/internal/ir"
)

// ErrRejected means a template's validity predicates refused the drawn
// arguments or the computed answer. Like an unanswerable evaluation, it is
// fixed by drawing again.
var ErrRejected = errors.New("instance rejected")

// Template describes one kind of question.
type Template struct {
	// ID is the template's position in its catalog, assigned by New.
	ID int

	// Name is the type string, e.g. "StationShortestCount".
	Name string

	// Group collects related templates.
	Group string

	// Placeholders are the leaf kinds drawn for each instance, in the
	// order Build and English consume them.
	Placeholders []expr.Kind

	// English is a fmt format with one %s per placeholder.
	English string

	// Build assembles the tree from the drawn leaves.
	Build func(args []*expr.Node) *expr.Node

	// ArgumentsValid may reject drawn values before the answer is kept.
	ArgumentsValid func(g *graph.Context, args []ir.IRValue) bool

	// AnswerValid may reject the computed answer.
	AnswerValid func(g *graph.Context, answer ir.IRValue) bool
}

// Explain renders the English form with placeholder kinds in braces.
func (t Template) Explain() string {
	names := make([]any, len(t.Placeholders))
	for i, p := range t.Placeholders {
		names[i] = "{" + string(p) + "}"
	}
	return fmt.Sprintf(t.English, names...)
}

// Retryable reports whether err can be cured by drawing new arguments
// or generating a new graph.
func Retryable(err error) bool {
	return errors.Is(err, ErrRejected) || interp.IsUnanswerable(err)
}

// Catalog is an ordered set of templates.
type Catalog struct {
	templates []Template
	byName    map[string]int
}

// New builds a catalog, numbering templates in order.
func New(templates ...Template) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(templates))}
	for i, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template %d: missing name", i)
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("template %q: duplicate name", t.Name)
		}
		if t.Build == nil {
			return nil, fmt.Errorf("template %q: missing builder", t.Name)
		}
		for _, p := range t.Placeholders {
			if !interp.Samplable(p) {
				return nil, fmt.Errorf("template %q: %s cannot be sampled", t.Name, p)
			}
		}
		if got := strings.Count(t.English, "%s"); got != len(t.Placeholders) {
			return nil, fmt.Errorf("template %q: %d placeholders but %d verbs", t.Name, len(t.Placeholders), got)
		}
		t.ID = i
		c.templates = append(c.templates, t)
		c.byName[t.Name] = i
	}
	return c, nil
}

// Templates returns every template in catalog order.
func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

// Lookup finds a template by name.
func (c *Catalog) Lookup(name string) (Template, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Matching returns the templates whose name starts with any prefix.
// No prefixes selects everything.
func (c *Catalog) Matching(prefixes []string) []Template {
	if len(prefixes) == 0 {
		return c.Templates()
	}
	var out []Template
	for _, t := range c.templates {
		for _, p := range prefixes {
			if strings.HasPrefix(t.Name, p) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
