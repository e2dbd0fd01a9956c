package evaluator

import (
	"github.com/focus-lang/focus/internal/ast"
)

// capture closes fn over the variables its body reads from enclosing
// function scopes. Each captured slot is moved into a Ref in place, so the
// declaring scope and every closure sharing the name keep seeing one cell.
// Top-level names are not captured; their slots live as long as the
// evaluator. Names that do not resolve yet are skipped, and a later call
// picks them up once they are bound.
func (e *Evaluator) capture(fn *Function) error {
	captured := make(map[string]bool, len(fn.Captured))
	for _, c := range fn.Captured {
		captured[c.Name] = true
	}
	for _, name := range freeNames(fn.Params, fn.Body) {
		if captured[name] {
			continue
		}
		l, owner, ok := fn.Context.FindLocal(name)
		if !ok || owner.IsRoot() {
			continue
		}
		if owner.expired {
			return newError(StaleReference, fn.Body.Token, "cannot capture %s: its call has returned", name)
		}
		if !l.Initialized() {
			continue
		}
		cell, err := e.stack.Box(l.Addr)
		if err != nil {
			return newError(StaleReference, fn.Body.Token, "cannot capture %s: %v", name, err)
		}
		fn.Captured = append(fn.Captured, CapturedName{Name: name, Cell: cell, Type: l.Type})
	}
	return nil
}

// captureEscaping captures what a function returned from a call still
// needs from the call's scope, which expires once the call returns.
// Names bound after the function was created are resolvable only now.
func (e *Evaluator) captureEscaping(v Value, scope *Context) error {
	fn, ok := v.(*Function)
	if !ok || !fn.Context.Encloses(scope) {
		return nil
	}
	return e.capture(fn)
}

// freeNames lists, in order of first use, the names body refers to that
// are neither parameters nor bound inside body before the use.
func freeNames(params []string, body *ast.BlockExpression) []string {
	c := &freeNameCollector{seen: make(map[string]bool)}
	c.push(params)
	body.Accept(c)
	return c.names
}

type freeNameCollector struct {
	scopes []map[string]bool
	seen   map[string]bool
	names  []string
}

func (c *freeNameCollector) push(names []string) {
	scope := make(map[string]bool, len(names))
	for _, n := range names {
		scope[n] = true
	}
	c.scopes = append(c.scopes, scope)
}

func (c *freeNameCollector) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *freeNameCollector) define(name string) {
	c.scopes[len(c.scopes)-1][name] = true
}

func (c *freeNameCollector) use(name string) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i][name] {
			return
		}
	}
	if !c.seen[name] {
		c.seen[name] = true
		c.names = append(c.names, name)
	}
}

func (c *freeNameCollector) visit(e ast.Expression) {
	if e != nil {
		e.Accept(c)
	}
}

func (c *freeNameCollector) VisitProgram(p *ast.Program) {
	for _, s := range p.Statements {
		s.Accept(c)
	}
}

func (c *freeNameCollector) VisitLetStatement(ls *ast.LetStatement) {
	if ls.Value == nil {
		c.define(ls.Name.Value)
		return
	}
	if len(ls.Params) > 0 {
		// a function sees itself and its parameters
		c.define(ls.Name.Value)
		params := make([]string, len(ls.Params))
		for i, p := range ls.Params {
			params[i] = p.Value
		}
		c.push(params)
		ls.Value.Accept(c)
		c.pop()
		return
	}
	ls.Value.Accept(c)
	c.define(ls.Name.Value)
}

func (c *freeNameCollector) VisitTypeStatement(*ast.TypeStatement)     {}
func (c *freeNameCollector) VisitModuleStatement(*ast.ModuleStatement) {}
func (c *freeNameCollector) VisitUseStatement(*ast.UseStatement)       {}

func (c *freeNameCollector) VisitExpressionStatement(es *ast.ExpressionStatement) {
	c.visit(es.Expression)
}

func (c *freeNameCollector) VisitIntegerLiteral(*ast.IntegerLiteral) {}
func (c *freeNameCollector) VisitFloatLiteral(*ast.FloatLiteral)     {}
func (c *freeNameCollector) VisitCharLiteral(*ast.CharLiteral)       {}
func (c *freeNameCollector) VisitBooleanLiteral(*ast.BooleanLiteral) {}
func (c *freeNameCollector) VisitUnitLiteral(*ast.UnitLiteral)       {}
func (c *freeNameCollector) VisitStringLiteral(*ast.StringLiteral)   {}

func (c *freeNameCollector) VisitPathExpression(pe *ast.PathExpression) {
	c.use(pe.Root())
}

func (c *freeNameCollector) VisitInfixExpression(ie *ast.InfixExpression) {
	c.visit(ie.Left)
	c.visit(ie.Right)
}

func (c *freeNameCollector) VisitPrefixExpression(pe *ast.PrefixExpression) {
	c.visit(pe.Right)
}

func (c *freeNameCollector) VisitAssignExpression(ae *ast.AssignExpression) {
	c.visit(ae.Target)
	c.visit(ae.Value)
}

func (c *freeNameCollector) VisitCallExpression(ce *ast.CallExpression) {
	c.use(ce.Function.Root())
	for _, arg := range ce.Arguments {
		c.visit(arg)
	}
}

func (c *freeNameCollector) VisitStructLiteral(sl *ast.StructLiteral) {
	for _, f := range sl.Fields {
		c.visit(f.Value)
	}
}

func (c *freeNameCollector) VisitArrayLiteral(al *ast.ArrayLiteral) {
	for _, el := range al.Elements {
		c.visit(el)
	}
}

func (c *freeNameCollector) VisitIndexExpression(ie *ast.IndexExpression) {
	c.visit(ie.Left)
	c.visit(ie.Index)
}

func (c *freeNameCollector) VisitIfExpression(ie *ast.IfExpression) {
	c.visit(ie.Condition)
	ie.Consequence.Accept(c)
	if ie.Alternative != nil {
		ie.Alternative.Accept(c)
	}
}

func (c *freeNameCollector) VisitBlockExpression(be *ast.BlockExpression) {
	for _, s := range be.Statements {
		s.Accept(c)
	}
}

func (c *freeNameCollector) VisitClosureExpression(ce *ast.ClosureExpression) {
	c.push(closureParams(ce))
	ce.Body.Accept(c)
	c.pop()
}

func (c *freeNameCollector) VisitRangeExpression(re *ast.RangeExpression) {
	c.visit(re.From)
	c.visit(re.To)
}

func (c *freeNameCollector) VisitForExpression(fe *ast.ForExpression) {
	c.visit(fe.Iterable)
	c.push([]string{fe.Name.Value})
	fe.Body.Accept(c)
	c.pop()
}

func (c *freeNameCollector) VisitMatchExpression(me *ast.MatchExpression) {
	c.visit(me.Subject)
	for _, b := range me.Branches {
		c.visit(b.Guard)
		b.Body.Accept(c)
	}
}

func (c *freeNameCollector) VisitUnitType(*ast.UnitType)         {}
func (c *freeNameCollector) VisitNamedType(*ast.NamedType)       {}
func (c *freeNameCollector) VisitFunctionType(*ast.FunctionType) {}
func (c *freeNameCollector) VisitArrayType(*ast.ArrayType)       {}
