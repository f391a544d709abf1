// Package export writes and reads generated questions as a stream of YAML
// documents, one question per document.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gqa/internal/driver"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// TypeRef names a question type.
type TypeRef struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// Question is the exported form of a catalog instance.
type Question struct {
	ID         string         `yaml:"id"`
	English    string         `yaml:"english"`
	Functional map[string]any `yaml:"functional"`
	Cypher     *string        `yaml:"cypher"` // nil without a translation
	TypeID     int            `yaml:"type_id"`
	TypeString string         `yaml:"type_string"`
	Group      string         `yaml:"group"`
	Type       TypeRef        `yaml:"type"`
}

// Document is one exported question, its answer and optionally its graph.
type Document struct {
	Graph    *graph.Spec `yaml:"graph,omitempty"`
	Question Question    `yaml:"question"`
	Answer   any         `yaml:"answer"`
}

// FromDriver converts a generated document to its exported form.
func FromDriver(doc driver.Document) Document {
	inst := doc.Instance
	out := Document{
		Question: Question{
			ID:         inst.ID,
			English:    inst.English,
			Functional: ir.ToNative(inst.Functional).(map[string]any),
			TypeID:     inst.TypeID,
			TypeString: inst.Type,
			Group:      inst.Group,
			Type:       TypeRef{ID: inst.TypeID, Name: inst.Type},
		},
		Answer: ir.ToNative(inst.Answer),
	}
	if inst.Cypher != "" {
		q := inst.Cypher
		out.Question.Cypher = &q
	}
	if doc.Graph != nil {
		spec := doc.Graph.Spec()
		out.Graph = &spec
	}
	return out
}

// Tree returns the canonical tree of the question.
func (q Question) Tree() (ir.IRObject, error) {
	v, err := ir.FromNative(q.Functional)
	if err != nil {
		return nil, fmt.Errorf("question %s: functional: %w", q.ID, err)
	}
	return v.(ir.IRObject), nil
}

// AnswerValue returns the answer as an IR value.
func (d Document) AnswerValue() (ir.IRValue, error) {
	v, err := ir.FromNative(d.Answer)
	if err != nil {
		return nil, fmt.Errorf("question %s: answer: %w", d.Question.ID, err)
	}
	return v, nil
}

// Writer streams documents as YAML. It is a driver.Sink.
type Writer struct {
	enc *yaml.Encoder
	n   int
}

// NewWriter creates a Writer on w. Close must be called to flush.
func NewWriter(w io.Writer) *Writer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Writer{enc: enc}
}

// Write encodes one generated document.
func (w *Writer) Write(_ context.Context, doc driver.Document) error {
	return w.WriteDocument(FromDriver(doc))
}

// WriteDocument encodes one exported document.
func (w *Writer) WriteDocument(doc Document) error {
	if err := w.enc.Encode(doc); err != nil {
		return fmt.Errorf("export: document %d: %w", w.n, err)
	}
	w.n++
	return nil
}

// Count is the number of documents written.
func (w *Writer) Count() int { return w.n }

// Close flushes the stream.
func (w *Writer) Close() error {
	return w.enc.Close()
}

// Read decodes every document in r.
func Read(r io.Reader) ([]Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []Document
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("export: document %d: %w", len(docs), err)
		}
		docs = append(docs, doc)
	}
}
