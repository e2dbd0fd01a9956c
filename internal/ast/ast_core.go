package ast

import "github.com/focus-lang/focus/internal/token"

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visibility of a declaration outside its module.
type Visibility int

const (
	Private Visibility = iota
	Public
	ModuleVisible // pub module
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "pub"
	case ModuleVisible:
		return "pub module"
	}
	return ""
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Identifier is a bare name in a declaration position.
type Identifier struct {
	Token token.Token
	Value string
}

// UnitParam is the parameter name bound by `let f (): (() -> r) = ...`.
// It can never collide with a user identifier.
const UnitParam = "()"

// LetStatement binds a value or defines a function.
//
//	let a = 1
//	let add a b: (int -> int -> int) = a + b
//	let counter: int
type LetStatement struct {
	Token      token.Token // the 'let' token
	Visibility Visibility
	Name       *Identifier
	Params     []*Identifier
	Type       Type             // optional
	Value      *BlockExpression // nil for a declaration without initializer
}

func (ls *LetStatement) Accept(v Visitor)      { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) TokenLiteral() string  { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token { return ls.Token }

// FieldDeclaration is one member of a struct declaration.
type FieldDeclaration struct {
	Token      token.Token
	Visibility Visibility
	Name       string
	Type       Type
}

// TypeStatement declares a struct, an alias, or a unit-like named type.
//
//	type Point = {x: int, y: int}
//	type Meters = int
//	type Marker
type TypeStatement struct {
	Token      token.Token // the 'type' token
	Visibility Visibility
	Name       *Identifier
	IsStruct   bool
	Fields     []*FieldDeclaration
	Alias      Type // target of an alias; nil with IsStruct false means unit
}

func (ts *TypeStatement) Accept(v Visitor)      { v.VisitTypeStatement(ts) }
func (ts *TypeStatement) statementNode()        {}
func (ts *TypeStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TypeStatement) GetToken() token.Token { return ts.Token }

// ModuleStatement is `module name`.
type ModuleStatement struct {
	Token      token.Token
	Visibility Visibility
	Name       *Identifier
}

func (ms *ModuleStatement) Accept(v Visitor)      { v.VisitModuleStatement(ms) }
func (ms *ModuleStatement) statementNode()        {}
func (ms *ModuleStatement) TokenLiteral() string  { return ms.Token.Lexeme }
func (ms *ModuleStatement) GetToken() token.Token { return ms.Token }

// UseStatement is `use a.b.c`.
type UseStatement struct {
	Token      token.Token
	Visibility Visibility
	Path       []string
}

func (us *UseStatement) Accept(v Visitor)      { v.VisitUseStatement(us) }
func (us *UseStatement) statementNode()        {}
func (us *UseStatement) TokenLiteral() string  { return us.Token.Lexeme }
func (us *UseStatement) GetToken() token.Token { return us.Token }

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
