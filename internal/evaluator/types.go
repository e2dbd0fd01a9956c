package evaluator

import (
	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/token"
	"github.com/focus-lang/focus/internal/typesystem"
)

// typeOf resolves the static type of expr in the current scope without
// evaluating it. expected, when not NoType, is the type the context wants;
// it is what gives closures and empty arrays their type. The result is not
// checked against expected; callers compare.
func (e *Evaluator) typeOf(expr ast.Expression, expected typesystem.TypeID) (typesystem.TypeID, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return typesystem.IntID, nil
	case *ast.FloatLiteral:
		return typesystem.FloatID, nil
	case *ast.CharLiteral:
		return typesystem.CharID, nil
	case *ast.BooleanLiteral:
		return typesystem.BoolID, nil
	case *ast.UnitLiteral:
		return typesystem.UnitID, nil
	case *ast.PathExpression:
		return e.pathType(n)
	case *ast.InfixExpression:
		return e.infixType(n)
	case *ast.PrefixExpression:
		return e.prefixType(n)
	case *ast.AssignExpression:
		return typesystem.UnitID, nil
	case *ast.CallExpression:
		calleeType, err := e.pathType(n.Function)
		if err != nil {
			return 0, err
		}
		layout, err := e.functionLayout(n.Function, calleeType)
		if err != nil {
			return 0, err
		}
		return layout.Return, nil
	case *ast.StructLiteral:
		t, err := e.structType(n.Type)
		if err != nil {
			return 0, err
		}
		return t.ID, nil
	case *ast.ArrayLiteral:
		return e.arrayType(n, expected)
	case *ast.IndexExpression:
		return e.indexType(n)
	case *ast.IfExpression:
		return e.ifType(n, expected)
	case *ast.BlockExpression:
		return e.typeOfBlock(n, expected)
	case *ast.ClosureExpression:
		if _, err := e.closureLayout(n, expected); err != nil {
			return 0, err
		}
		return expected, nil
	}
	return 0, unsupported(expr)
}

func unsupported(node ast.Node) *RuntimeError {
	var tok token.Token
	switch n := node.(type) {
	case ast.Expression:
		tok = n.GetToken()
	case ast.Statement:
		tok = n.GetToken()
	}
	switch node.(type) {
	case *ast.StringLiteral:
		return newError(Unsupported, tok, "string literals are not supported")
	case *ast.RangeExpression:
		return newError(Unsupported, tok, "ranges are not supported")
	case *ast.ForExpression:
		return newError(Unsupported, tok, "for loops are not supported")
	case *ast.MatchExpression:
		return newError(Unsupported, tok, "match expressions are not supported")
	case *ast.ModuleStatement:
		return newError(Unsupported, tok, "module declarations are not supported")
	case *ast.UseStatement:
		return newError(Unsupported, tok, "use declarations are not supported")
	}
	return newError(Unsupported, tok, "%s is not supported", node.TokenLiteral())
}

// typeOfBlock types the last statement of b. Earlier lets are bound in a
// throwaway scope that only carries their types, so the last statement can
// refer to them.
func (e *Evaluator) typeOfBlock(b *ast.BlockExpression, expected typesystem.TypeID) (typesystem.TypeID, error) {
	if len(b.Statements) == 0 {
		return typesystem.UnitID, nil
	}
	saved := e.ctx
	e.ctx = NewEnclosedContext(saved)
	defer func() { e.ctx = saved }()

	last := len(b.Statements) - 1
	for i, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.LetStatement:
			t, err := e.letType(s)
			if err != nil {
				return 0, err
			}
			e.ctx.AddLocal(s.Name.Value, Local{Type: t, Addr: NoAddr})
		case *ast.ExpressionStatement:
			if i == last {
				return e.typeOf(s.Expression, expected)
			}
		}
	}
	return typesystem.UnitID, nil
}

// letType is the type a let statement gives its name.
func (e *Evaluator) letType(ls *ast.LetStatement) (typesystem.TypeID, error) {
	if ls.Type != nil {
		id, err := e.Types.ResolveExpr(ls.Type)
		if err != nil {
			return 0, typeError(ls.Token, err)
		}
		return id, nil
	}
	if ls.Value == nil {
		return 0, newError(InvalidLetDeclaration, ls.Token, "%s needs a type or a value", ls.Name.Value)
	}
	if len(ls.Params) > 0 {
		return 0, newError(InvalidLetDeclaration, ls.Token, "function %s needs a declared function type", ls.Name.Value)
	}
	return e.typeOfBlock(ls.Value, typesystem.NoType)
}

// pathType walks a path through locals or module definitions and then
// through struct fields.
func (e *Evaluator) pathType(path *ast.PathExpression) (typesystem.TypeID, error) {
	root := path.Root()
	var t typesystem.TypeID
	var rest []string
	if l, _, ok := e.ctx.FindLocal(root); ok {
		t, rest = l.Type, path.Segments[1:]
	} else {
		b, fields, err := e.moduleValue(path)
		if err != nil {
			return 0, err
		}
		t, rest = b.Type, fields
	}
	for _, field := range rest {
		st, err := e.resolved(path.Token, t)
		if err != nil {
			return 0, err
		}
		if _, ok := st.AsStruct(); !ok {
			return 0, newError(UnknownOrMissingStructField, path.Token, "%s: %s has no field %s", path, st.Name, field)
		}
		_, f, ok := st.Field(field)
		if !ok {
			return 0, newError(UnknownOrMissingStructField, path.Token, "%s: %s has no field %s", path, st.Name, field)
		}
		t = f.Type
	}
	return t, nil
}

func (e *Evaluator) functionLayout(path *ast.PathExpression, id typesystem.TypeID) (*typesystem.FuncLayout, error) {
	t, err := e.resolved(path.Token, id)
	if err != nil {
		return nil, err
	}
	layout, ok := t.AsFunction()
	if !ok {
		return nil, newError(NotCallable, path.Token, "%s has type %s and cannot be called", path, t.Name)
	}
	return layout, nil
}

func (e *Evaluator) structType(path *ast.PathExpression) (*typesystem.Type, error) {
	id, err := e.Types.ResolveExpr(&ast.NamedType{Token: path.Token, Path: path.Segments})
	if err != nil {
		return nil, typeError(path.Token, err)
	}
	t, err := e.resolved(path.Token, id)
	if err != nil {
		return nil, err
	}
	if !t.IsStruct() {
		return nil, newError(TypeMismatch, path.Token, "%s is not a struct type", path)
	}
	return t, nil
}

func (e *Evaluator) infixType(ie *ast.InfixExpression) (typesystem.TypeID, error) {
	left, err := e.typeOf(ie.Left, typesystem.NoType)
	if err != nil {
		return 0, err
	}
	right, err := e.typeOf(ie.Right, left)
	if err != nil {
		return 0, err
	}
	same, err := e.equal(ie.Token, left, right)
	if err != nil {
		return 0, err
	}
	if !same {
		return 0, newError(TypeMismatch, ie.Token, "operands of %s have different types: %s and %s",
			ie.Operator, e.typeName(left), e.typeName(right))
	}
	t, err := e.resolved(ie.Token, left)
	if err != nil {
		return 0, err
	}

	switch ie.Operator {
	case "&&", "||":
		if !t.IsBoolean() {
			return 0, newError(TypeMismatch, ie.Token, "%s needs bool operands, found %s", ie.Operator, t.Name)
		}
		return typesystem.BoolID, nil
	case "==", "!=":
		return typesystem.BoolID, nil
	case "<", ">", "<=", ">=":
		if !t.IsOrdered() {
			return 0, newError(TypeMismatch, ie.Token, "%s is not defined on %s", ie.Operator, t.Name)
		}
		return typesystem.BoolID, nil
	case "+", "-", "*", "/", "%":
		if !t.IsNumeric() {
			return 0, newError(TypeMismatch, ie.Token, "%s is not defined on %s", ie.Operator, t.Name)
		}
		return left, nil
	}
	return 0, newError(Unsupported, ie.Token, "unknown operator %s", ie.Operator)
}

func (e *Evaluator) prefixType(pe *ast.PrefixExpression) (typesystem.TypeID, error) {
	operand, err := e.typeOf(pe.Right, typesystem.NoType)
	if err != nil {
		return 0, err
	}
	t, err := e.resolved(pe.Token, operand)
	if err != nil {
		return 0, err
	}
	switch pe.Operator {
	case "-":
		if !t.IsNumeric() {
			return 0, newError(TypeMismatch, pe.Token, "cannot negate %s", t.Name)
		}
	case "!":
		if !t.IsBoolean() {
			return 0, newError(TypeMismatch, pe.Token, "! needs a bool operand, found %s", t.Name)
		}
	default:
		return 0, newError(Unsupported, pe.Token, "unknown operator %s", pe.Operator)
	}
	return operand, nil
}

// arrayType types an array literal from its first element, or from the
// expected type when the literal is empty. Every element must match.
func (e *Evaluator) arrayType(al *ast.ArrayLiteral, expected typesystem.TypeID) (typesystem.TypeID, error) {
	elemExpected := typesystem.NoType
	if expected != typesystem.NoType {
		if t, err := e.Types.Resolve(expected); err == nil {
			if elem, ok := t.AsArray(); ok {
				elemExpected = elem
			}
		}
	}
	if len(al.Elements) == 0 {
		if elemExpected == typesystem.NoType {
			return 0, newError(TypeMismatch, al.Token, "cannot infer the element type of an empty array")
		}
		return expected, nil
	}
	elem, err := e.typeOf(al.Elements[0], elemExpected)
	if err != nil {
		return 0, err
	}
	for _, el := range al.Elements[1:] {
		t, err := e.typeOf(el, elem)
		if err != nil {
			return 0, err
		}
		same, err := e.equal(el.GetToken(), elem, t)
		if err != nil {
			return 0, err
		}
		if !same {
			return 0, newError(TypeMismatch, el.GetToken(), "array elements must all be %s, found %s",
				e.typeName(elem), e.typeName(t))
		}
	}
	id, err := e.Types.ArrayOf(elem)
	if err != nil {
		return 0, typeError(al.Token, err)
	}
	return id, nil
}

func (e *Evaluator) indexType(ie *ast.IndexExpression) (typesystem.TypeID, error) {
	left, err := e.typeOf(ie.Left, typesystem.NoType)
	if err != nil {
		return 0, err
	}
	t, err := e.resolved(ie.Token, left)
	if err != nil {
		return 0, err
	}
	elem, ok := t.AsArray()
	if !ok {
		return 0, newError(NotIndexable, ie.Token, "cannot index a value of type %s", t.Name)
	}
	index, err := e.typeOf(ie.Index, typesystem.IntID)
	if err != nil {
		return 0, err
	}
	isInt, err := e.equal(ie.Token, index, typesystem.IntID)
	if err != nil {
		return 0, err
	}
	if !isInt {
		return 0, newError(TypeMismatch, ie.Index.GetToken(), "array index must be int, found %s", e.typeName(index))
	}
	return elem, nil
}

// ifType requires a bool condition. Without else the consequence must be
// unit; with else both branches must have the same type.
func (e *Evaluator) ifType(ie *ast.IfExpression, expected typesystem.TypeID) (typesystem.TypeID, error) {
	cond, err := e.typeOf(ie.Condition, typesystem.BoolID)
	if err != nil {
		return 0, err
	}
	isBool, err := e.equal(ie.Token, cond, typesystem.BoolID)
	if err != nil {
		return 0, err
	}
	if !isBool {
		return 0, newError(TypeMismatch, ie.Condition.GetToken(), "if condition must be bool, found %s", e.typeName(cond))
	}
	then, err := e.typeOfBlock(ie.Consequence, expected)
	if err != nil {
		return 0, err
	}
	if ie.Alternative == nil {
		isUnit, err := e.equal(ie.Token, then, typesystem.UnitID)
		if err != nil {
			return 0, err
		}
		if !isUnit {
			return 0, newError(TypeMismatch, ie.Token, "if without else must have type (), found %s", e.typeName(then))
		}
		return typesystem.UnitID, nil
	}
	if expected == typesystem.NoType {
		expected = then
	}
	alt, err := e.typeOfBlock(ie.Alternative, expected)
	if err != nil {
		return 0, err
	}
	same, err := e.equal(ie.Token, then, alt)
	if err != nil {
		return 0, err
	}
	if !same {
		return 0, newError(TypeMismatch, ie.Token, "if branches have different types: %s and %s",
			e.typeName(then), e.typeName(alt))
	}
	return then, nil
}

// closureLayout checks a closure literal against the function type it is
// expected to have. A closure without parameters takes the unit argument.
func (e *Evaluator) closureLayout(ce *ast.ClosureExpression, expected typesystem.TypeID) (*typesystem.FuncLayout, error) {
	if expected == typesystem.NoType {
		return nil, newError(TypeMismatch, ce.Token, "cannot infer the type of a closure; declare a function type")
	}
	t, err := e.resolved(ce.Token, expected)
	if err != nil {
		return nil, err
	}
	layout, ok := t.AsFunction()
	if !ok {
		return nil, newError(TypeMismatch, ce.Token, "a closure cannot have type %s", t.Name)
	}
	if n := len(closureParams(ce)); n != len(layout.Params) {
		return nil, newError(ArityMismatch, ce.Token, "closure takes %d parameter(s) but %s takes %d",
			n, t.Name, len(layout.Params))
	}
	return layout, nil
}

func closureParams(ce *ast.ClosureExpression) []string {
	if len(ce.Params) == 0 {
		return []string{ast.UnitParam}
	}
	params := make([]string, len(ce.Params))
	for i, p := range ce.Params {
		params[i] = p.Value
	}
	return params
}
