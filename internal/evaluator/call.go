package evaluator

import (
	"errors"
	"fmt"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/typesystem"
)

// evalCall applies a named function. Arguments are type checked and
// evaluated in the caller's scope; the call then runs in its own frame and
// in a fresh scope whose parent is the scope the function was created in.
// The frame and the caller's scope are restored on every exit path.
func (e *Evaluator) evalCall(call *ast.CallExpression) (Value, error) {
	callee, calleeType, err := e.readPath(call.Function)
	if err != nil {
		return nil, err
	}
	layout, err := e.functionLayout(call.Function, calleeType)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, newError(NotCallable, call.Token, "%s is not a function", call.Function)
	}
	if len(call.Arguments) != len(layout.Params) {
		return nil, newError(ArityMismatch, call.Token, "%s takes %d argument(s), got %d",
			call.Function, len(layout.Params), len(call.Arguments))
	}
	if len(fn.Params) != len(layout.Params) {
		return nil, newError(ArityMismatch, call.Token, "%s has %d parameter(s) but its type takes %d",
			call.Function, len(fn.Params), len(layout.Params))
	}

	args := make([]Value, len(call.Arguments))
	for i, arg := range call.Arguments {
		want := layout.Params[i]
		t, err := e.typeOf(arg, want)
		if err != nil {
			return nil, err
		}
		same, err := e.equal(arg.GetToken(), want, t)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, newError(TypeMismatch, arg.GetToken(), "argument %d of %s must be %s, found %s",
				i+1, call.Function, e.typeName(want), e.typeName(t))
		}
		if args[i], err = e.eval(arg, want); err != nil {
			return nil, err
		}
	}

	return e.invoke(fn, layout, args, CallFrame{Name: call.Function.String(), Line: call.Token.Line, Column: call.Token.Column})
}

// Apply calls fn with already evaluated arguments, as embedders do. Each
// argument must have the declared parameter type.
func (e *Evaluator) Apply(fn *Function, args []Value) (Value, error) {
	name := fn.Name
	if name == "" {
		name = "closure"
	}
	t, err := e.Types.Resolve(fn.TypeID)
	if err != nil {
		return nil, &RuntimeError{Kind: NotCallable, Message: fmt.Sprintf("%s: %v", name, err)}
	}
	layout, ok := t.AsFunction()
	if !ok {
		return nil, &RuntimeError{Kind: NotCallable, Message: fmt.Sprintf("%s has type %s and cannot be called", name, t.Name)}
	}
	args = append([]Value(nil), args...)
	if len(args) == 0 && len(layout.Params) == 1 {
		args = []Value{Unit{}}
	}
	if len(args) != len(layout.Params) || len(fn.Params) != len(layout.Params) {
		return nil, &RuntimeError{Kind: ArityMismatch, Message: fmt.Sprintf("%s takes %d argument(s), got %d", name, len(layout.Params), len(args))}
	}
	for i, arg := range args {
		args[i] = Deref(arg)
		same, err := e.Types.Equal(e.ValueType(args[i]), layout.Params[i])
		if err != nil || !same {
			return nil, &RuntimeError{Kind: TypeMismatch, Message: fmt.Sprintf("argument %d of %s must be %s", i+1, name, e.typeName(layout.Params[i]))}
		}
	}

	saved := e.ctx
	e.ctx = e.Global
	defer func() { e.ctx = saved }()
	return e.invoke(fn, layout, args, CallFrame{Name: name})
}

// invoke runs fn in a new frame. The frame, the caller's scope and the call
// stack are restored on every exit path.
func (e *Evaluator) invoke(fn *Function, layout *typesystem.FuncLayout, args []Value, frame CallFrame) (Value, error) {
	e.CallStack = append(e.CallStack, frame)
	if e.Trace && e.Logger != nil {
		e.Logger.Printf("call %s depth=%d", frame.Name, e.stack.Depth()+1)
	}

	e.stack.PushFrame()
	scope := NewEnclosedContext(fn.Context)
	saved := e.ctx
	e.ctx = scope
	defer func() {
		e.ctx = saved
		scope.expire()
		e.stack.PopFrame()
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}()

	for i, name := range fn.Params {
		addr := e.stack.Push(args[i])
		scope.AddLocal(name, Local{Type: layout.Params[i], Addr: addr})
	}
	for _, c := range fn.Captured {
		addr := e.stack.Push(c.Cell)
		scope.AddLocal(c.Name, Local{Type: c.Type, Addr: addr})
	}

	v, err := e.evalBody(fn, layout.Return)
	if err != nil {
		return nil, e.withTrace(err)
	}
	v = Deref(v)
	if err := e.captureEscaping(v, scope); err != nil {
		return nil, e.withTrace(err)
	}
	return v, nil
}

// ValueType returns the type a runtime value carries.
func (e *Evaluator) ValueType(v Value) typesystem.TypeID {
	switch v := Deref(v).(type) {
	case Unit:
		return typesystem.UnitID
	case Boolean:
		return typesystem.BoolID
	case Char:
		return typesystem.CharID
	case Integer:
		return typesystem.IntID
	case Float:
		return typesystem.FloatID
	case *Object:
		return v.TypeID
	case *Function:
		return v.TypeID
	}
	return typesystem.NoType
}

func (e *Evaluator) evalBody(fn *Function, ret typesystem.TypeID) (Value, error) {
	bodyType, err := e.typeOfBlock(fn.Body, ret)
	if err != nil {
		return nil, err
	}
	same, err := e.equal(fn.Body.Token, ret, bodyType)
	if err != nil {
		return nil, err
	}
	if !same {
		name := fn.Name
		if name == "" {
			name = "closure"
		}
		return nil, newError(TypeMismatch, fn.Body.Token, "%s returns %s but its body has type %s",
			name, e.typeName(ret), e.typeName(bodyType))
	}
	return e.evalBlock(fn.Body, ret)
}

// withTrace records the active calls on a runtime error the first time it
// unwinds through a call.
func (e *Evaluator) withTrace(err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.StackTrace == nil {
		for i := len(e.CallStack) - 1; i >= 0; i-- {
			f := e.CallStack[i]
			rerr.StackTrace = append(rerr.StackTrace, StackFrame(f))
		}
	}
	return err
}
