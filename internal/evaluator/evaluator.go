package evaluator

import (
	"errors"
	"log"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/modules"
	"github.com/focus-lang/focus/internal/token"
	"github.com/focus-lang/focus/internal/typesystem"
)

// CallFrame records an active call for stack traces.
type CallFrame struct {
	Name   string
	Line   int
	Column int
}

// Evaluator walks the tree and runs it. One evaluator is one interpreter
// instance: its registry, module, root scope and stack persist across
// programs, which is what the REPL relies on.
type Evaluator struct {
	// Types interns every type declared or synthesized by this interpreter.
	Types *typesystem.Registry
	// Module owns the top-level values and types.
	Module *modules.Module
	// Global is the root scope. Slots bound here live as long as the
	// evaluator.
	Global *Context

	// Logger receives one line per failed statement. Nil discards.
	Logger *log.Logger
	// Trace logs every statement and call when a Logger is set.
	Trace bool
	// CurrentFile names the source in error messages.
	CurrentFile string
	// OnStatement, when set, sees the outcome of every top-level statement
	// as Run evaluates it.
	OnStatement func(stmt ast.Statement, v Value, err error)

	// CallStack for stack traces on errors
	CallStack []CallFrame

	stack *Stack
	ctx   *Context
}

func New() *Evaluator {
	module := modules.New(modules.DefaultModuleName)
	types := typesystem.NewRegistry()
	types.SetNamespace(module)
	e := &Evaluator{
		Types:  types,
		Module: module,
		Global: NewContext(module),
		stack:  NewStack(),
	}
	e.ctx = e.Global
	return e
}

// Stack exposes the value store, mainly for inspection.
func (e *Evaluator) Stack() *Stack { return e.stack }

// Run evaluates the statements of program in order. A failing statement is
// logged and skipped. Run returns the value of the last statement that
// succeeded and every error raised, in order.
func (e *Evaluator) Run(program *ast.Program) (Value, []error) {
	var result Value = Unit{}
	var errs []error
	if program == nil {
		return result, nil
	}
	for _, stmt := range program.Statements {
		v, err := e.EvalStatement(stmt)
		if e.OnStatement != nil {
			e.OnStatement(stmt, v, err)
		}
		if err != nil {
			e.report(err)
			errs = append(errs, err)
			continue
		}
		result = v
	}
	return result, errs
}

// EvalStatement evaluates one top-level statement in the root scope.
func (e *Evaluator) EvalStatement(stmt ast.Statement) (Value, error) {
	// a failed call unwinds through deferred pops, but keep the root sane
	// even if a statement is abandoned midway
	e.ctx = e.Global
	e.CallStack = e.CallStack[:0]
	if e.Trace && e.Logger != nil {
		tok := stmt.GetToken()
		e.Logger.Printf("eval %d:%d %T", tok.Line, tok.Column, stmt)
	}
	v, err := e.evalStatement(stmt, typesystem.NoType)
	if err != nil {
		var rerr *RuntimeError
		if errors.As(err, &rerr) && rerr.File == "" {
			rerr.File = e.CurrentFile
		}
		return nil, err
	}
	return v, nil
}

func (e *Evaluator) report(err error) {
	if e.Logger != nil {
		e.Logger.Print(err)
	}
}

// Define binds name in the root scope, as a top-level let would.
func (e *Evaluator) Define(name string, t typesystem.TypeID, v Value) {
	saved := e.ctx
	e.ctx = e.Global
	e.bind(name, t, v)
	e.ctx = saved
}

// Lookup reads a top-level name.
func (e *Evaluator) Lookup(name string) (Value, typesystem.TypeID, bool) {
	l, ok := e.Global.GetLocal(name)
	if !ok || !l.Initialized() {
		return nil, typesystem.NoType, false
	}
	v, err := e.stack.Get(l.Addr)
	if err != nil {
		return nil, typesystem.NoType, false
	}
	return Deref(v), l.Type, true
}

// TypeOf resolves the static type of an expression in the root scope.
func (e *Evaluator) TypeOf(expr ast.Expression) (typesystem.TypeID, error) {
	saved := e.ctx
	e.ctx = e.Global
	defer func() { e.ctx = saved }()
	return e.typeOf(expr, typesystem.NoType)
}

// bind pushes v into a new slot of the current frame and names it in the
// current scope. Root bindings are also published on the module.
func (e *Evaluator) bind(name string, t typesystem.TypeID, v Value) int {
	addr := e.stack.Push(v)
	e.ctx.AddLocal(name, Local{Type: t, Addr: addr})
	if e.ctx == e.Global {
		e.Module.DefineValue(name, modules.Binding{Type: t, Addr: addr})
	}
	return addr
}

// equal compares two type ids, reporting registry failures at tok.
func (e *Evaluator) equal(tok token.Token, a, b typesystem.TypeID) (bool, error) {
	ok, err := e.Types.Equal(a, b)
	if err != nil {
		return false, typeError(tok, err)
	}
	return ok, nil
}

// resolved returns the underlying type of id.
func (e *Evaluator) resolved(tok token.Token, id typesystem.TypeID) (*typesystem.Type, error) {
	t, err := e.Types.Resolve(id)
	if err != nil {
		return nil, typeError(tok, err)
	}
	return t, nil
}

func (e *Evaluator) typeName(id typesystem.TypeID) string {
	return e.Types.Name(id)
}
