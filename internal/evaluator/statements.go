package evaluator

import (
	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/typesystem"
)

func (e *Evaluator) evalStatement(stmt ast.Statement, expected typesystem.TypeID) (Value, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.eval(s.Expression, expected)
	case *ast.LetStatement:
		return e.evalLet(s)
	case *ast.TypeStatement:
		return e.evalTypeStatement(s)
	}
	return nil, unsupported(stmt)
}

// evalLet handles the three forms of let:
//
//	let name: T                  declares name without a value
//	let f a b: (A -> B -> R) = … defines a function
//	let name [: T] = …           binds a value
//
// A declared type (() -> R) with a body that is not already a value of that
// type also defines a function, taking the unit argument.
func (e *Evaluator) evalLet(ls *ast.LetStatement) (Value, error) {
	name := ls.Name.Value
	declared := typesystem.NoType
	if ls.Type != nil {
		id, err := e.Types.ResolveExpr(ls.Type)
		if err != nil {
			return nil, typeError(ls.Token, err)
		}
		declared = id
	}

	if ls.Value == nil {
		if len(ls.Params) > 0 {
			return nil, newError(InvalidLetDeclaration, ls.Token, "function %s has no body", name)
		}
		if declared == typesystem.NoType {
			return nil, newError(InvalidLetDeclaration, ls.Token, "%s needs a type or a value", name)
		}
		e.ctx.AddLocal(name, Local{Type: declared, Addr: NoAddr})
		return Unit{}, nil
	}

	isFunc, err := e.isFunctionDefinition(ls, declared)
	if err != nil {
		return nil, err
	}
	if isFunc {
		return e.defineFunction(ls, declared)
	}

	t, err := e.typeOfBlock(ls.Value, declared)
	if err != nil {
		return nil, err
	}
	if declared != typesystem.NoType {
		same, err := e.equal(ls.Token, declared, t)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, newError(TypeMismatch, ls.Token, "%s is declared as %s but its value has type %s",
				name, e.typeName(declared), e.typeName(t))
		}
		t = declared
	}
	v, err := e.evalBlock(ls.Value, t)
	if err != nil {
		return nil, err
	}
	e.bind(name, t, v)
	return Unit{}, nil
}

func (e *Evaluator) isFunctionDefinition(ls *ast.LetStatement, declared typesystem.TypeID) (bool, error) {
	if len(ls.Params) > 0 {
		return true, nil
	}
	if declared == typesystem.NoType {
		return false, nil
	}
	t, err := e.resolved(ls.Token, declared)
	if err != nil {
		return false, err
	}
	layout, ok := t.AsFunction()
	if !ok || len(layout.Params) != 1 {
		return false, nil
	}
	if unit, err := e.equal(ls.Token, layout.Params[0], typesystem.UnitID); err != nil || !unit {
		return false, err
	}
	if len(ls.Value.Statements) != 1 {
		return true, nil
	}
	es, ok := ls.Value.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		return true, nil
	}
	if _, isClosure := es.Expression.(*ast.ClosureExpression); isClosure {
		return false, nil
	}
	// an existing function of the declared type is bound as a value
	if vt, err := e.typeOf(es.Expression, declared); err == nil {
		if same, _ := e.Types.Equal(vt, declared); same {
			return false, nil
		}
	}
	return true, nil
}

func (e *Evaluator) defineFunction(ls *ast.LetStatement, declared typesystem.TypeID) (Value, error) {
	name := ls.Name.Value
	if declared == typesystem.NoType {
		return nil, newError(InvalidLetDeclaration, ls.Token, "function %s needs a declared function type", name)
	}
	t, err := e.resolved(ls.Token, declared)
	if err != nil {
		return nil, err
	}
	layout, ok := t.AsFunction()
	if !ok {
		return nil, newError(InvalidLetDeclaration, ls.Token, "%s has parameters but its type %s is not a function type", name, t.Name)
	}
	params := make([]string, 0, len(ls.Params))
	for _, p := range ls.Params {
		params = append(params, p.Value)
	}
	if len(params) == 0 {
		params = []string{ast.UnitParam}
	}
	if len(params) != len(layout.Params) {
		return nil, newError(ArityMismatch, ls.Token, "%s declares %d parameter(s) but %s takes %d",
			name, len(params), t.Name, len(layout.Params))
	}

	fn := &Function{
		Name:    name,
		Context: e.ctx,
		Body:    ls.Value,
		Params:  params,
		TypeID:  declared,
	}
	// bound before capturing so a nested function can call itself
	e.bind(name, declared, fn)
	if err := e.capture(fn); err != nil {
		return nil, err
	}
	return Unit{}, nil
}

func (e *Evaluator) evalTypeStatement(ts *ast.TypeStatement) (Value, error) {
	var (
		id  typesystem.TypeID
		err error
	)
	if ts.IsStruct {
		id, err = e.Types.DeclareStruct(ts.Name.Value, ts.Visibility, ts.Fields)
	} else {
		id, err = e.Types.DeclareAlias(ts.Name.Value, ts.Visibility, ts.Alias)
	}
	if err != nil {
		return nil, typeError(ts.Token, err)
	}
	e.ctx.Module().DefineType(ts.Name.Value, id)
	if e.Trace && e.Logger != nil {
		e.Logger.Printf("type %s = %s", ts.Name.Value, e.typeName(id))
	}
	return Unit{}, nil
}
