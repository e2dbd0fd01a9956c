package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
	// Indent is the indentation width of the line the token sits on.
	Indent int
	// SpaceBefore reports whether whitespace separates the token from the previous one.
	SpaceBefore bool
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	if t.Type == NEWLINE {
		return "end of line"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"

	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	CHAR   TokenType = "CHAR"
	STRING TokenType = "STRING"
	UNIT   TokenType = "()"

	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LTE    TokenType = "<="
	GTE    TokenType = ">="
	AND    TokenType = "&&"
	OR     TokenType = "||"

	COMMA    TokenType = ","
	COLON    TokenType = ":"
	DOT      TokenType = "."
	DOT_DOT  TokenType = ".."
	ARROW    TokenType = "->"
	AT       TokenType = "@"
	PIPE     TokenType = "|"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	LET    TokenType = "LET"
	TYPE   TokenType = "TYPE"
	PUB    TokenType = "PUB"
	MODULE TokenType = "MODULE"
	USE    TokenType = "USE"
	TRAIT  TokenType = "TRAIT"
	IF     TokenType = "IF"
	THEN   TokenType = "THEN"
	ELSE   TokenType = "ELSE"
	FN     TokenType = "FN"
	MATCH  TokenType = "MATCH"
	FOR    TokenType = "FOR"
	IN     TokenType = "IN"
	DO     TokenType = "DO"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"
)

var keywords = map[string]TokenType{
	"let":    LET,
	"type":   TYPE,
	"pub":    PUB,
	"module": MODULE,
	"use":    USE,
	"trait":  TRAIT,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"fn":     FN,
	"match":  MATCH,
	"for":    FOR,
	"in":     IN,
	"do":     DO,
	"true":   TRUE,
	"false":  FALSE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsOperator reports whether t can appear between two operands.
func (t TokenType) IsOperator() bool {
	switch t {
	case ASSIGN, PLUS, MINUS, ASTERISK, SLASH, PERCENT,
		EQ, NOT_EQ, LT, GT, LTE, GTE, AND, OR:
		return true
	}
	return false
}

// StartsPrimary reports whether a token of type t can begin a call argument.
func (t TokenType) StartsPrimary() bool {
	switch t {
	case INT, FLOAT, CHAR, STRING, UNIT, TRUE, FALSE, IDENT, LPAREN, LBRACKET:
		return true
	}
	return false
}
