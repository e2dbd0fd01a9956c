package ast

import (
	"strings"

	"github.com/focus-lang/focus/internal/token"
)

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor)      { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

type CharLiteral struct {
	Token token.Token
	Value rune
}

func (cl *CharLiteral) Accept(v Visitor)      { v.VisitCharLiteral(cl) }
func (cl *CharLiteral) expressionNode()       {}
func (cl *CharLiteral) TokenLiteral() string  { return cl.Token.Lexeme }
func (cl *CharLiteral) GetToken() token.Token { return cl.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

// UnitLiteral is `()`.
type UnitLiteral struct {
	Token token.Token
}

func (ul *UnitLiteral) Accept(v Visitor)      { v.VisitUnitLiteral(ul) }
func (ul *UnitLiteral) expressionNode()       {}
func (ul *UnitLiteral) TokenLiteral() string  { return ul.Token.Lexeme }
func (ul *UnitLiteral) GetToken() token.Token { return ul.Token }

// StringLiteral is parsed but has no runtime representation yet.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// PathExpression is a name optionally followed by dotted field or module
// segments: `a`, `line.a.x`.
type PathExpression struct {
	Token    token.Token // the first identifier
	Segments []string
}

func (pe *PathExpression) Accept(v Visitor)      { v.VisitPathExpression(pe) }
func (pe *PathExpression) expressionNode()       {}
func (pe *PathExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PathExpression) GetToken() token.Token { return pe.Token }
func (pe *PathExpression) Root() string          { return pe.Segments[0] }
func (pe *PathExpression) String() string        { return strings.Join(pe.Segments, ".") }

// InfixExpression is an arithmetic, comparison or boolean operation.
type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)      { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// PrefixExpression is `-x` or `!x`.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)      { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// AssignExpression writes Value into the location named by Target.
// The parser accepts any target; only paths are assignable at run time.
type AssignExpression struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
}

func (ae *AssignExpression) Accept(v Visitor)      { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

// CallExpression applies a named function to arguments by juxtaposition: `f a b`.
type CallExpression struct {
	Token     token.Token
	Function  *PathExpression
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// FieldValue is `name: expr` inside a struct literal.
type FieldValue struct {
	Token token.Token
	Name  string
	Value Expression
}

// StructLiteral is `Point {x: 1, y: 2}`.
type StructLiteral struct {
	Token  token.Token
	Type   *PathExpression
	Fields []*FieldValue
}

func (sl *StructLiteral) Accept(v Visitor)      { v.VisitStructLiteral(sl) }
func (sl *StructLiteral) expressionNode()       {}
func (sl *StructLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StructLiteral) GetToken() token.Token { return sl.Token }

// ArrayLiteral is `[a, b, c]`.
type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) Accept(v Visitor)      { v.VisitArrayLiteral(al) }
func (al *ArrayLiteral) expressionNode()       {}
func (al *ArrayLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token { return al.Token }

// IndexExpression represents indexing, e.g. arr[i]
type IndexExpression struct {
	Token token.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Accept(v Visitor)      { v.VisitIndexExpression(ie) }
func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// IfExpression is `if c then a else b`. An `else if` chain nests an
// IfExpression as the only statement of Alternative.
type IfExpression struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockExpression
	Alternative *BlockExpression // may be nil
}

func (ie *IfExpression) Accept(v Visitor)      { v.VisitIfExpression(ie) }
func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// BlockExpression is a sequence of statements; its value is the last one's.
type BlockExpression struct {
	Token      token.Token
	Statements []Statement
}

func (be *BlockExpression) Accept(v Visitor)      { v.VisitBlockExpression(be) }
func (be *BlockExpression) expressionNode()       {}
func (be *BlockExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token { return be.Token }

// ClosureExpression is `fn a b -> body`.
type ClosureExpression struct {
	Token  token.Token // the 'fn' token
	Params []*Identifier
	Body   *BlockExpression
}

func (ce *ClosureExpression) Accept(v Visitor)      { v.VisitClosureExpression(ce) }
func (ce *ClosureExpression) expressionNode()       {}
func (ce *ClosureExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ClosureExpression) GetToken() token.Token { return ce.Token }

// RangeExpression is `a..b`; either bound may be omitted.
type RangeExpression struct {
	Token token.Token
	From  Expression
	To    Expression
}

func (re *RangeExpression) Accept(v Visitor)      { v.VisitRangeExpression(re) }
func (re *RangeExpression) expressionNode()       {}
func (re *RangeExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *RangeExpression) GetToken() token.Token { return re.Token }

// ForExpression is `for x in items do body`.
type ForExpression struct {
	Token    token.Token
	Name     *Identifier
	Iterable Expression
	Body     *BlockExpression
}

func (fe *ForExpression) Accept(v Visitor)      { v.VisitForExpression(fe) }
func (fe *ForExpression) expressionNode()       {}
func (fe *ForExpression) TokenLiteral() string  { return fe.Token.Lexeme }
func (fe *ForExpression) GetToken() token.Token { return fe.Token }

// MatchBranch is `| pattern [if guard] -> body`.
type MatchBranch struct {
	Token   token.Token
	Pattern Expression
	Guard   Expression
	Body    *BlockExpression
}

type MatchExpression struct {
	Token    token.Token
	Subject  Expression
	Branches []*MatchBranch
}

func (me *MatchExpression) Accept(v Visitor)      { v.VisitMatchExpression(me) }
func (me *MatchExpression) expressionNode()       {}
func (me *MatchExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token { return me.Token }
