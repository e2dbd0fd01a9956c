package ast

import (
	"strings"

	"github.com/focus-lang/focus/internal/token"
)

// Type represents a type expression in the AST.
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
	String() string
}

// UnitType is `()`.
type UnitType struct {
	Token token.Token
}

func (ut *UnitType) Accept(v Visitor)      { v.VisitUnitType(ut) }
func (ut *UnitType) typeNode()             {}
func (ut *UnitType) TokenLiteral() string  { return ut.Token.Lexeme }
func (ut *UnitType) GetToken() token.Token { return ut.Token }
func (ut *UnitType) String() string        { return "()" }

// NamedType is `int`, `Point` or a module-qualified `geo.Point`.
type NamedType struct {
	Token token.Token
	Path  []string
}

func (nt *NamedType) Accept(v Visitor)      { v.VisitNamedType(nt) }
func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }
func (nt *NamedType) String() string        { return strings.Join(nt.Path, ".") }

// FunctionType is `(a -> b -> r)`: every component but the last is a parameter.
type FunctionType struct {
	Token  token.Token // the '(' token
	Params []Type
	Return Type
}

func (ft *FunctionType) Accept(v Visitor)      { v.VisitFunctionType(ft) }
func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }
func (ft *FunctionType) String() string {
	parts := make([]string, 0, len(ft.Params)+1)
	for _, p := range ft.Params {
		parts = append(parts, p.String())
	}
	parts = append(parts, ft.Return.String())
	return "(" + strings.Join(parts, " -> ") + ")"
}

// ArrayType is `[T]`.
type ArrayType struct {
	Token   token.Token // the '[' token
	Element Type
}

func (at *ArrayType) Accept(v Visitor)      { v.VisitArrayType(at) }
func (at *ArrayType) typeNode()             {}
func (at *ArrayType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token { return at.Token }
func (at *ArrayType) String() string        { return "[" + at.Element.String() + "]" }
