// Package driver runs question generation: it cycles through the catalog,
// regenerates graphs on failure, enforces abort thresholds and hands
// finished documents to sinks.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/metrics"
)

var (
	// ErrNoTemplates means the type prefixes matched no template.
	ErrNoTemplates = errors.New("no templates match the type prefixes")

	// ErrTooManyDefects means defects reached max(1, count/3).
	ErrTooManyDefects = errors.New("too many defects")

	// ErrTooManyRetries means unanswerable draws exceeded count*100.
	ErrTooManyRetries = errors.New("too many unanswerable draws")
)

// Document is one generated question, with the graph it was asked about
// unless graphs are omitted.
type Document struct {
	Graph    *graph.Context
	Instance *catalog.Instance
}

// Sink receives documents in generation order.
type Sink interface {
	Write(ctx context.Context, doc Document) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, doc Document) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, doc Document) error { return f(ctx, doc) }

// GraphSource produces a fresh graph per call.
type GraphSource interface {
	Generate() (*graph.Context, error)
}

// Config sets the size and shape of a run.
type Config struct {
	Count             int
	QuestionsPerGraph int
	OmitGraph         bool
	TypePrefixes      []string
}

// Summary reports what a run did.
type Summary struct {
	Generated int
	Graphs    int
	Defects   int
	Retries   int

	Tries     map[string]int
	Successes map[string]int
}

// Driver generates Config.Count documents.
type Driver struct {
	cfg       Config
	templates []catalog.Template
	gen       *catalog.Generator
	graphs    GraphSource
	sinks     []Sink
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// Option configures a Driver.
type Option func(*Driver)

// WithSink adds a sink. Sinks are written in the order added.
func WithSink(s Sink) Option {
	return func(d *Driver) { d.sinks = append(d.sinks, s) }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithMetrics records counters into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(d *Driver) { d.metrics = r }
}

// New creates a Driver over the templates of cat matching cfg.TypePrefixes.
func New(cfg Config, cat *catalog.Catalog, gen *catalog.Generator, graphs GraphSource, opts ...Option) (*Driver, error) {
	if cfg.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", cfg.Count)
	}
	if cfg.QuestionsPerGraph < 1 {
		return nil, fmt.Errorf("questions per graph must be positive, got %d", cfg.QuestionsPerGraph)
	}
	templates := cat.Matching(cfg.TypePrefixes)
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoTemplates, cfg.TypePrefixes)
	}

	d := &Driver{
		cfg:       cfg,
		templates: templates,
		gen:       gen,
		graphs:    graphs,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = metrics.New()
	}
	return d, nil
}

// Run generates until Count documents are written or an abort threshold
// is crossed. The summary is valid even when an error is returned.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	sum := Summary{Tries: map[string]int{}, Successes: map[string]int{}}
	maxDefects := max(1, d.cfg.Count/3)
	maxRetries := d.cfg.Count * 100
	next := 0

	for sum.Generated < d.cfg.Count {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		g, err := d.graph()
		sum.Graphs++
		if err != nil {
			sum.Defects++
			d.logger.Debug("graph generation failed", "error", err)
			if sum.Defects >= maxDefects {
				return sum, fmt.Errorf("%w: %d, last: %w", ErrTooManyDefects, sum.Defects, err)
			}
			continue
		}

		for j := 0; j < d.cfg.QuestionsPerGraph && sum.Generated < d.cfg.Count; j++ {
			t := d.templates[next%len(d.templates)]
			next++

			sum.Tries[t.Name]++
			d.metrics.Attempt(t.Name)

			inst, err := d.gen.Generate(t, g)
			if err != nil {
				if catalog.Retryable(err) {
					sum.Retries++
					d.metrics.Failure(t.Name, metrics.ClassUnanswerable)
					d.logger.Debug("unanswerable draw", "type", t.Name, "error", err)
					if sum.Retries > maxRetries {
						return sum, fmt.Errorf("%w: %d, last: %w", ErrTooManyRetries, sum.Retries, err)
					}
				} else {
					sum.Defects++
					d.metrics.Failure(t.Name, metrics.ClassDefect)
					d.logger.Debug("defect while generating", "type", t.Name, "error", err)
					if sum.Defects >= maxDefects {
						return sum, fmt.Errorf("%w: %d, last: %w", ErrTooManyDefects, sum.Defects, err)
					}
				}
				// A fresh graph after any failure.
				break
			}

			sum.Successes[t.Name]++
			sum.Generated++
			d.metrics.Success(t.Name)
			if inst.Cypher == "" {
				d.metrics.Untranslatable(t.Name)
			}
			d.logger.Debug("generated question", "type", t.Name, "question", inst.English)

			doc := Document{Instance: inst}
			if !d.cfg.OmitGraph {
				doc.Graph = g
			}
			for _, s := range d.sinks {
				if err := s.Write(ctx, doc); err != nil {
					return sum, fmt.Errorf("write %s: %w", inst.ID, err)
				}
			}
		}
	}

	d.warnShortfalls(sum)
	return sum, nil
}

func (d *Driver) graph() (*graph.Context, error) {
	g, err := d.graphs.Generate()
	d.metrics.Graph()
	if err != nil {
		return nil, err
	}
	if err := g.Usable(); err != nil {
		return nil, err
	}
	return g, nil
}

func (d *Driver) warnShortfalls(sum Summary) {
	d.logger.Info("generated questions", "count", sum.Generated, "graphs", sum.Graphs, "per_type", sum.Successes)
	for _, t := range d.templates {
		tries, ok := sum.Tries[t.Name]
		if !ok {
			continue
		}
		switch got := sum.Successes[t.Name]; {
		case got == 0:
			d.logger.Warn("question type totally failed to generate", "type", t.Name, "tries", tries)
		case got < tries:
			d.logger.Warn("question type failed to generate", "type", t.Name, "failed", tries-got, "tries", tries)
		}
	}
}

// IsAbort reports whether err is one of the abort thresholds.
func IsAbort(err error) bool {
	return errors.Is(err, ErrTooManyDefects) || errors.Is(err, ErrTooManyRetries)
}
