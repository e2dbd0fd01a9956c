package diagnostics

import (
	"fmt"

	"github.com/focus-lang/focus/internal/token"
)

type ErrorCode string

const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // illegal token from the lexer
	ErrP003 ErrorCode = "P003" // bad indentation
	ErrP004 ErrorCode = "P004" // unexpected end of input
	ErrP005 ErrorCode = "P005" // malformed literal
	ErrP006 ErrorCode = "P006" // declaration not allowed here
)

// DiagnosticError is a syntax error with its source position.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

func (e *DiagnosticError) Error() string {
	file := e.File
	if file == "" {
		file = "<source>"
	}
	return fmt.Sprintf("%s:%d:%d: error %s: %s", file, e.Token.Line, e.Token.Column, e.Code, e.Message)
}
