// Package diag defines gaia's single error taxonomy (spec section 7).
// It has no dependencies on any other gaia package so that the lexer,
// parser, symbol table, type checker and IR generator can all return
// *CompileError without creating an import cycle.
package diag

import (
	"fmt"

	"gaia/src/util"
)

// Kind tags which row of spec section 7's table a CompileError reports.
type Kind int

const (
	UnexpectedToken Kind = iota
	UnterminatedStringLiteral
	UnterminatedBlockComment
	InvalidNumberOfParameters
	UnknownIdentifier
	Redefinition
	InvalidType
	MismatchingTypes
	NoMatchingFunction
	ArgumentMismatch
)

var kindNames = [...]string{
	UnexpectedToken:           "UnexpectedToken",
	UnterminatedStringLiteral: "UnterminatedStringLiteral",
	UnterminatedBlockComment:  "UnterminatedBlockComment",
	InvalidNumberOfParameters: "InvalidNumberOfParameters",
	UnknownIdentifier:         "UnknownIdentifier",
	Redefinition:              "Redefinition",
	InvalidType:               "InvalidType",
	MismatchingTypes:          "MismatchingTypes",
	NoMatchingFunction:        "NoMatchingFunction",
	ArgumentMismatch:          "ArgumentMismatch",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "UnknownError"
	}
	return kindNames[k]
}

// CompileError is the one error type returned across every stage of the
// pipeline. HasLoc is false only for ArgumentMismatch (spec section 7:
// "message (no location)").
type CompileError struct {
	Kind    Kind
	Message string
	Loc     util.SourceLocation
	HasLoc  bool
	Wrapped error // non-nil when this error annotates a lower-level one.
}

// Error implements the error interface. Diagnostic *formatting* (the
// path:line:col layout plus source-line-and-caret of spec section 6) is
// left to the driver; Error itself stays a single line so it composes
// cleanly with fmt.Errorf("...: %w", err) wrapping.
func (e *CompileError) Error() string {
	if e.HasLoc {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Loc)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to a wrapped cause.
func (e *CompileError) Unwrap() error {
	return e.Wrapped
}

// New builds a located CompileError.
func New(kind Kind, loc util.SourceLocation, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Loc: loc, HasLoc: true}
}

// NewNoLoc builds an unlocated CompileError (only ArgumentMismatch uses
// this per spec section 7).
func NewNoLoc(kind Kind, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with additional context while preserving the
// original *CompileError for errors.As, mirroring the teacher's plain
// fmt.Errorf("...: %s", err) message style but keeping the structured
// kind/location intact instead of flattening it into a string.
func Wrap(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
