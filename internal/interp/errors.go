package interp

import (
	"errors"
	"fmt"

	"github.com/roach88/gqa/internal/expr"
)

// EvalError is a failure while evaluating a tree.
//
// Errors fall into two classes:
//   - Unanswerable: the sampled arguments do not admit a well-defined answer
//     (a tie for most common value, a list that should hold one element but
//     does not, an empty input to First or MinBy). The caller should resample.
//   - Defect: the tree is inconsistent with the data (missing field, wrong
//     value type, unbound argument). Resampling will not help.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Kind is the operator that failed.
	Kind expr.Kind

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeAmbiguous indicates Mode found more than one most common value.
	ErrCodeAmbiguous EvalErrorCode = "AMBIGUOUS"

	// ErrCodeNotUnit indicates UnpackUnitList got a list whose length is not 1.
	ErrCodeNotUnit EvalErrorCode = "NOT_UNIT"

	// ErrCodeEmpty indicates an operator that needs at least one element got none.
	ErrCodeEmpty EvalErrorCode = "EMPTY_INPUT"

	// ErrCodeTooFew indicates Sample was asked for more elements than exist.
	ErrCodeTooFew EvalErrorCode = "TOO_FEW"

	// ErrCodeNamePoolExhausted indicates every candidate fake name is taken.
	ErrCodeNamePoolExhausted EvalErrorCode = "NAME_POOL_EXHAUSTED"

	// ErrCodePathLimit indicates Paths found more routes than the limit allows.
	ErrCodePathLimit EvalErrorCode = "PATH_LIMIT"

	// ErrCodeMissingKey indicates a record lacks a requested field.
	ErrCodeMissingKey EvalErrorCode = "MISSING_KEY"

	// ErrCodeTypeMismatch indicates an operand of the wrong value type.
	ErrCodeTypeMismatch EvalErrorCode = "TYPE_MISMATCH"

	// ErrCodeUnknownNode indicates a station id that is not in the graph.
	ErrCodeUnknownNode EvalErrorCode = "UNKNOWN_NODE"

	// ErrCodeMalformed indicates a tree that fails structural validation.
	ErrCodeMalformed EvalErrorCode = "MALFORMED_TREE"
)

// Class separates recoverable failures from defects.
type Class int

const (
	ClassDefect Class = iota
	ClassUnanswerable
)

func (c Class) String() string {
	if c == ClassUnanswerable {
		return "unanswerable"
	}
	return "defect"
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// Class reports whether the error is recoverable by resampling.
func (e *EvalError) Class() Class {
	switch e.Code {
	case ErrCodeAmbiguous, ErrCodeNotUnit, ErrCodeEmpty, ErrCodeTooFew,
		ErrCodeNamePoolExhausted, ErrCodePathLimit:
		return ClassUnanswerable
	default:
		return ClassDefect
	}
}

// IsUnanswerable reports whether err is an unanswerable evaluation error.
// Uses errors.As to handle wrapped errors.
func IsUnanswerable(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Class() == ClassUnanswerable
	}
	return false
}

// IsDefect reports whether err is an evaluation defect.
func IsDefect(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Class() == ClassDefect
	}
	return false
}

// HasCode reports whether err is an EvalError with the given code.
func HasCode(err error, code EvalErrorCode) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Code == code
}

func newError(code EvalErrorCode, kind expr.Kind, format string, args ...any) *EvalError {
	return &EvalError{Code: code, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
