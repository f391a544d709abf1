package cypher

import (
	"errors"
	"fmt"

	"github.com/roach88/gqa/internal/expr"
)

var (
	// ErrNotTranslatable marks a tree with no Cypher equivalent. Callers
	// treat it as "no query", not as a failure of the question.
	ErrNotTranslatable = errors.New("not translatable to cypher")

	// ErrRetiredVariable means the compiler tried to reference a variable
	// after folding it into an aggregate. It indicates a compiler bug.
	ErrRetiredVariable = errors.New("retired variable referenced")
)

// UnsupportedError reports the operator that could not be translated.
type UnsupportedError struct {
	Kind   expr.Kind
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cypher: %s: no translation", e.Kind)
	}
	return fmt.Sprintf("cypher: %s: %s", e.Kind, e.Reason)
}

// Unwrap makes errors.Is(err, ErrNotTranslatable) hold.
func (e *UnsupportedError) Unwrap() error {
	return ErrNotTranslatable
}

func unsupported(kind expr.Kind, format string, args ...any) *UnsupportedError {
	return &UnsupportedError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
