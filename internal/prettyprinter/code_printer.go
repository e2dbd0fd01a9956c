package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/focus-lang/focus/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"=":  1,
	"||": 2,
	"&&": 3,
	"==": 4,
	"!=": 4,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"..": 5,
	"+":  6,
	"-":  6,
	"*":  7,
	"/":  7,
	"%":  7,
}

const prefixPrecedence = 8

// CodePrinter renders a tree back to canonical source. Nested blocks are
// indented four spaces deeper than the line that opens them.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders node and returns the accumulated source.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) newline() {
	p.buf.WriteByte('\n')
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

func precedenceOf(e ast.Expression) int {
	switch e := e.(type) {
	case *ast.InfixExpression:
		return operatorPrecedence[e.Operator]
	case *ast.AssignExpression:
		return operatorPrecedence["="]
	case *ast.RangeExpression:
		return operatorPrecedence[".."]
	case *ast.PrefixExpression:
		return prefixPrecedence
	case *ast.IfExpression, *ast.ClosureExpression, *ast.ForExpression, *ast.MatchExpression:
		return 0
	}
	return prefixPrecedence + 1
}

// operand prints e, parenthesized when it binds looser than min.
func (p *CodePrinter) operand(e ast.Expression, min int) {
	if precedenceOf(e) < min {
		p.write("(")
		e.Accept(p)
		p.write(")")
		return
	}
	e.Accept(p)
}

// argument prints a call argument; anything but a primary needs parentheses.
func (p *CodePrinter) argument(e ast.Expression) {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.CharLiteral, *ast.BooleanLiteral,
		*ast.UnitLiteral, *ast.StringLiteral, *ast.PathExpression, *ast.StructLiteral,
		*ast.ArrayLiteral, *ast.IndexExpression:
		e.Accept(p)
	default:
		p.write("(")
		e.Accept(p)
		p.write(")")
	}
}

// block prints a body after its opening token. Single expressions stay on
// the opening line.
func (p *CodePrinter) block(b *ast.BlockExpression) {
	if len(b.Statements) == 1 {
		if _, isLet := b.Statements[0].(*ast.LetStatement); !isLet {
			p.write(" ")
			b.Statements[0].Accept(p)
			return
		}
	}
	p.indent++
	for _, stmt := range b.Statements {
		p.newline()
		stmt.Accept(p)
	}
	p.indent--
}

func multiline(b *ast.BlockExpression) bool {
	if len(b.Statements) != 1 {
		return true
	}
	_, isLet := b.Statements[0].(*ast.LetStatement)
	return isLet
}

func (p *CodePrinter) visibility(v ast.Visibility) {
	if v != ast.Private {
		p.write(v.String() + " ")
	}
}

func (p *CodePrinter) VisitProgram(prog *ast.Program) {
	for i, stmt := range prog.Statements {
		if i > 0 {
			p.newline()
		}
		stmt.Accept(p)
	}
}

func (p *CodePrinter) VisitLetStatement(ls *ast.LetStatement) {
	p.visibility(ls.Visibility)
	p.write("let " + ls.Name.Value)
	for _, param := range ls.Params {
		p.write(" " + param.Value)
	}
	if ls.Type != nil {
		p.write(": " + ls.Type.String())
	}
	if ls.Value != nil {
		p.write(" =")
		p.block(ls.Value)
	}
}

func (p *CodePrinter) VisitTypeStatement(ts *ast.TypeStatement) {
	p.visibility(ts.Visibility)
	p.write("type " + ts.Name.Value)
	switch {
	case ts.IsStruct:
		p.write(" = {")
		for i, f := range ts.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.visibility(f.Visibility)
			p.write(f.Name + ": " + f.Type.String())
		}
		p.write("}")
	case ts.Alias != nil:
		p.write(" = " + ts.Alias.String())
	}
}

func (p *CodePrinter) VisitModuleStatement(ms *ast.ModuleStatement) {
	p.visibility(ms.Visibility)
	p.write("module " + ms.Name.Value)
}

func (p *CodePrinter) VisitUseStatement(us *ast.UseStatement) {
	p.visibility(us.Visibility)
	p.write("use " + strings.Join(us.Path, "."))
}

func (p *CodePrinter) VisitExpressionStatement(es *ast.ExpressionStatement) {
	es.Expression.Accept(p)
}

func (p *CodePrinter) VisitIntegerLiteral(il *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(il.Value, 10))
}

func (p *CodePrinter) VisitFloatLiteral(fl *ast.FloatLiteral) {
	s := strconv.FormatFloat(fl.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	p.write(s)
}

func (p *CodePrinter) VisitCharLiteral(cl *ast.CharLiteral) {
	p.write(QuoteChar(cl.Value))
}

// QuoteChar renders r as a character literal.
func QuoteChar(r rune) string {
	switch r {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	case 0:
		return `'\0'`
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	}
	return "'" + string(r) + "'"
}

func (p *CodePrinter) VisitBooleanLiteral(bl *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(bl.Value))
}

func (p *CodePrinter) VisitUnitLiteral(*ast.UnitLiteral) {
	p.write("()")
}

func (p *CodePrinter) VisitStringLiteral(sl *ast.StringLiteral) {
	p.write(strconv.Quote(sl.Value))
}

func (p *CodePrinter) VisitPathExpression(pe *ast.PathExpression) {
	p.write(pe.String())
}

func (p *CodePrinter) VisitInfixExpression(ie *ast.InfixExpression) {
	prec := operatorPrecedence[ie.Operator]
	p.operand(ie.Left, prec)
	p.write(" " + ie.Operator + " ")
	// operators are left-associative
	p.operand(ie.Right, prec+1)
}

func (p *CodePrinter) VisitPrefixExpression(pe *ast.PrefixExpression) {
	p.write(pe.Operator)
	p.operand(pe.Right, prefixPrecedence)
}

func (p *CodePrinter) VisitAssignExpression(ae *ast.AssignExpression) {
	prec := operatorPrecedence["="]
	p.operand(ae.Target, prec+1)
	p.write(" = ")
	p.operand(ae.Value, prec)
}

func (p *CodePrinter) VisitCallExpression(ce *ast.CallExpression) {
	p.write(ce.Function.String())
	for _, arg := range ce.Arguments {
		p.write(" ")
		p.argument(arg)
	}
}

func (p *CodePrinter) VisitStructLiteral(sl *ast.StructLiteral) {
	p.write(sl.Type.String() + " {")
	for i, f := range sl.Fields {
		if i > 0 {
			p.write(", ")
		}
		p.write(f.Name + ": ")
		f.Value.Accept(p)
	}
	p.write("}")
}

func (p *CodePrinter) VisitArrayLiteral(al *ast.ArrayLiteral) {
	p.write("[")
	for i, e := range al.Elements {
		if i > 0 {
			p.write(", ")
		}
		e.Accept(p)
	}
	p.write("]")
}

func (p *CodePrinter) VisitIndexExpression(ie *ast.IndexExpression) {
	p.operand(ie.Left, prefixPrecedence+1)
	p.write("[")
	ie.Index.Accept(p)
	p.write("]")
}

func (p *CodePrinter) VisitIfExpression(ie *ast.IfExpression) {
	p.write("if ")
	ie.Condition.Accept(p)
	p.write(" then")
	p.block(ie.Consequence)
	if ie.Alternative == nil {
		return
	}
	if multiline(ie.Consequence) {
		p.newline()
		p.write("else")
	} else {
		p.write(" else")
	}
	if len(ie.Alternative.Statements) == 1 {
		if es, ok := ie.Alternative.Statements[0].(*ast.ExpressionStatement); ok {
			if nested, ok := es.Expression.(*ast.IfExpression); ok {
				p.write(" ")
				nested.Accept(p)
				return
			}
		}
	}
	p.block(ie.Alternative)
}

func (p *CodePrinter) VisitBlockExpression(be *ast.BlockExpression) {
	for i, stmt := range be.Statements {
		if i > 0 {
			p.newline()
		}
		stmt.Accept(p)
	}
}

func (p *CodePrinter) VisitClosureExpression(ce *ast.ClosureExpression) {
	p.write("fn")
	for _, param := range ce.Params {
		p.write(" " + param.Value)
	}
	p.write(" ->")
	p.block(ce.Body)
}

func (p *CodePrinter) VisitRangeExpression(re *ast.RangeExpression) {
	prec := operatorPrecedence[".."]
	if re.From != nil {
		p.operand(re.From, prec+1)
	}
	p.write("..")
	if re.To != nil {
		p.operand(re.To, prec+1)
	}
}

func (p *CodePrinter) VisitForExpression(fe *ast.ForExpression) {
	p.write("for " + fe.Name.Value + " in ")
	fe.Iterable.Accept(p)
	p.write(" do")
	p.block(fe.Body)
}

func (p *CodePrinter) VisitMatchExpression(me *ast.MatchExpression) {
	p.write("match ")
	me.Subject.Accept(p)
	for _, b := range me.Branches {
		p.newline()
		p.write("| ")
		b.Pattern.Accept(p)
		if b.Guard != nil {
			p.write(" if ")
			b.Guard.Accept(p)
		}
		p.write(" ->")
		p.block(b.Body)
	}
}

func (p *CodePrinter) VisitUnitType(t *ast.UnitType)         { p.write(t.String()) }
func (p *CodePrinter) VisitNamedType(t *ast.NamedType)       { p.write(t.String()) }
func (p *CodePrinter) VisitFunctionType(t *ast.FunctionType) { p.write(t.String()) }
func (p *CodePrinter) VisitArrayType(t *ast.ArrayType)       { p.write(t.String()) }
