package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/focus-lang/focus/internal/token"
	"github.com/focus-lang/focus/internal/typesystem"
)

// ErrorKind classifies runtime failures. Kinds are comparable with
// errors.Is against any *RuntimeError.
type ErrorKind string

func (k ErrorKind) Error() string { return string(k) }

const (
	UnknownIdentifier           ErrorKind = "unknown identifier"
	ArityMismatch               ErrorKind = "arity mismatch"
	TypeMismatch                ErrorKind = "type mismatch"
	UnknownOrMissingStructField ErrorKind = "unknown or missing struct field"
	UnresolvedType              ErrorKind = "unresolved type"
	NotCallable                 ErrorKind = "not callable"
	NotIndexable                ErrorKind = "not indexable"
	IndexOutOfRange             ErrorKind = "index out of range"
	InvalidAssignmentTarget     ErrorKind = "invalid assignment target"
	InvalidLetDeclaration       ErrorKind = "invalid let declaration"
	DuplicateType               ErrorKind = "duplicate type"
	DivisionByZero              ErrorKind = "division by zero"
	Unsupported                 ErrorKind = "unsupported"
	StaleReference              ErrorKind = "stale reference"
)

// RuntimeError is a failure raised while evaluating a statement.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	File    string
	Line    int
	Column  int
	// StackTrace lists the active calls, innermost first.
	StackTrace []StackFrame
}

// StackFrame names one call that was active when an error was raised.
type StackFrame struct {
	Name   string
	Line   int
	Column int
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File + ":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	} else if e.File != "" {
		b.WriteString(" ")
	}
	b.WriteString(string(e.Kind) + ": " + e.Message)
	for _, frame := range e.StackTrace {
		fmt.Fprintf(&b, "\n  at %d:%d (called %s)", frame.Line, frame.Column, frame.Name)
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() error { return e.Kind }

func newError(kind ErrorKind, tok token.Token, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// typeError converts a registry failure into a runtime error at tok.
func typeError(tok token.Token, err error) *RuntimeError {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr
	}
	var unresolved *typesystem.UnresolvedTypeError
	var dupType *typesystem.DuplicateTypeError
	var dupField *typesystem.DuplicateFieldError
	switch {
	case errors.As(err, &unresolved):
		return newError(UnresolvedType, tok, "%s", err)
	case errors.As(err, &dupType), errors.As(err, &dupField):
		return newError(DuplicateType, tok, "%s", err)
	}
	return newError(TypeMismatch, tok, "%s", err)
}
