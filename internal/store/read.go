package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/gqa/internal/catalog"
	"github.com/roach88/gqa/internal/graph"
)

// Question is a stored instance with its position in the store.
type Question struct {
	Seq int64
	catalog.Instance
}

const questionColumns = `id, seq, graph_id, type_id, type_string, question_group,
	english, functional, cypher, answer`

// ReadQuestions returns the stored questions whose type string starts with
// any of prefixes, or every question when prefixes is empty.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadQuestions(ctx context.Context, prefixes []string) ([]Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions`
	var args []any
	if len(prefixes) > 0 {
		conds := make([]string, len(prefixes))
		for i, p := range prefixes {
			conds[i] = `substr(type_string, 1, ?) = ?`
			args = append(args, len(p), p)
		}
		query += ` WHERE ` + strings.Join(conds, ` OR `)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	return s.queryQuestions(ctx, query, args...)
}

// ReadGraphQuestions returns the questions asked about one graph.
func (s *Store) ReadGraphQuestions(ctx context.Context, graphID string) ([]Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE graph_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, graphID)
}

// ReadQuestion retrieves a single question by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	return scanQuestion(row)
}

// ReadGraph rebuilds a stored graph.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadGraph(ctx context.Context, id string) (*graph.Context, error) {
	var spec string
	if err := s.db.QueryRowContext(ctx, `SELECT spec FROM graphs WHERE id = ?`, id).Scan(&spec); err != nil {
		return nil, fmt.Errorf("read graph %s: %w", id, err)
	}
	v, err := unmarshalObject("graph", spec)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", id, err)
	}
	return graphFromValue(v)
}

// CountByType returns the number of stored questions per type string.
func (s *Store) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type_string, COUNT(*)
		FROM questions
		GROUP BY type_string
		ORDER BY type_string COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func (s *Store) queryQuestions(ctx context.Context, query string, args ...any) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (Question, error) {
	var (
		q          Question
		functional string
		answer     string
		cypher     sql.NullString
	)
	err := row.Scan(&q.ID, &q.Seq, &q.GraphID, &q.TypeID, &q.Type, &q.Group,
		&q.English, &functional, &cypher, &answer)
	if err != nil {
		return Question{}, err
	}

	if q.Functional, err = unmarshalObject("functional", functional); err != nil {
		return Question{}, fmt.Errorf("question %s: %w", q.ID, err)
	}
	if q.Answer, err = unmarshalValue("answer", answer); err != nil {
		return Question{}, fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Cypher = cypher.String
	return q, nil
}
