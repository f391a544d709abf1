package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/driver"
	"github.com/roach88/gqa/internal/graph"
	"github.com/roach88/gqa/internal/ir"
)

// ErrGraphConflict means a graph id is already stored with different content.
var ErrGraphConflict = errors.New("graph id already stored with different content")

// WriteGraph stores g. Writing an identical graph again is a no-op.
func (s *Store) WriteGraph(ctx context.Context, g *graph.Context) error {
	v := graphValue(g)
	spec, err := marshalValue("graph", v)
	if err != nil {
		return fmt.Errorf("write graph %s: %w", g.ID(), err)
	}
	digest, err := ir.Digest(v)
	if err != nil {
		return fmt.Errorf("write graph %s: %w", g.ID(), err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO graphs (id, digest, spec, node_count, edge_count, line_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, g.ID(), digest, spec, g.NodeCount(), g.EdgeCount(), len(g.Lines()))
	if err != nil {
		return fmt.Errorf("write graph %s: %w", g.ID(), err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	var stored string
	if err := s.db.QueryRowContext(ctx, `SELECT digest FROM graphs WHERE id = ?`, g.ID()).Scan(&stored); err != nil {
		return fmt.Errorf("write graph %s: %w", g.ID(), err)
	}
	if stored != digest {
		return fmt.Errorf("write graph %s: %w", g.ID(), ErrGraphConflict)
	}
	return nil
}

// WriteQuestion stores inst with the next seq number. Writing an instance
// whose id is already stored is a no-op and keeps the original seq.
func (s *Store) WriteQuestion(ctx context.Context, inst *catalog.Instance) error {
	functional, err := marshalValue("functional", inst.Functional)
	if err != nil {
		return fmt.Errorf("write question %s: %w", inst.ID, err)
	}
	answer, err := marshalValue("answer", inst.Answer)
	if err != nil {
		return fmt.Errorf("write question %s: %w", inst.ID, err)
	}
	var cypher sql.NullString
	if inst.Cypher != "" {
		cypher = sql.NullString{String: inst.Cypher, Valid: true}
	}

	// The single connection serializes writers, so MAX(seq)+1 is race free.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions
		(id, seq, graph_id, type_id, type_string, question_group, english,
		 functional, cypher, answer, format_version, generator_version)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM questions), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		inst.ID,
		inst.GraphID,
		inst.TypeID,
		inst.Type,
		inst.Group,
		inst.English,
		functional,
		cypher,
		answer,
		ir.FormatVersion,
		ir.GeneratorVersion,
	)
	if err != nil {
		return fmt.Errorf("write question %s: %w", inst.ID, err)
	}
	return nil
}

// Write stores a generated document: its graph, when present, then its
// question. It makes Store a driver.Sink.
func (s *Store) Write(ctx context.Context, doc driver.Document) error {
	if doc.Graph != nil {
		if err := s.WriteGraph(ctx, doc.Graph); err != nil {
			return err
		}
	}
	return s.WriteQuestion(ctx, doc.Instance)
}
