// Package metrics counts generation attempts and outcomes per question type.
//
// Every Recorder owns its own registry so that runs and tests never share
// state. The counters are written in the Prometheus text format with
// WriteTextfile, for node_exporter's textfile collector or for inspection.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gqa"

// Failure classes used as the "class" label.
const (
	ClassUnanswerable = "unanswerable"
	ClassDefect       = "defect"
)

// Recorder holds the generation counters.
type Recorder struct {
	reg *prometheus.Registry

	attempts       *prometheus.CounterVec
	successes      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	untranslatable *prometheus.CounterVec
	graphs         prometheus.Counter
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,

		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_attempts_total",
			Help:      "Instantiation attempts by question type.",
		}, []string{"type"}),
		successes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_successes_total",
			Help:      "Accepted instances by question type.",
		}, []string{"type"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_failures_total",
			Help:      "Failed instantiations by question type and failure class.",
		}, []string{"type", "class"}),
		graphs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_generated_total",
			Help:      "Graphs generated, including ones discarded after a failure.",
		}),
		untranslatable: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cypher_untranslatable_total",
			Help:      "Accepted instances without a compiled query, by question type.",
		}, []string{"type"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Attempt counts one instantiation attempt.
func (r *Recorder) Attempt(typ string) { r.attempts.WithLabelValues(typ).Inc() }

// Success counts one accepted instance.
func (r *Recorder) Success(typ string) { r.successes.WithLabelValues(typ).Inc() }

// Failure counts one failed attempt of the given class.
func (r *Recorder) Failure(typ, class string) { r.failures.WithLabelValues(typ, class).Inc() }

// Graph counts one generated graph.
func (r *Recorder) Graph() { r.graphs.Inc() }

// Untranslatable counts an accepted instance that has no query.
func (r *Recorder) Untranslatable(typ string) { r.untranslatable.WithLabelValues(typ).Inc() }

// WriteTextfile writes every counter to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
