package evaluator

import (
	"math"
	"strings"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/modules"
	"github.com/focus-lang/focus/internal/typesystem"
)

// eval evaluates expr in the current scope. The result never is a Ref.
func (e *Evaluator) eval(expr ast.Expression, expected typesystem.TypeID) (Value, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return Integer{Value: n.Value}, nil
	case *ast.FloatLiteral:
		return Float{Value: n.Value}, nil
	case *ast.CharLiteral:
		return Char{Value: n.Value}, nil
	case *ast.BooleanLiteral:
		return Boolean{Value: n.Value}, nil
	case *ast.UnitLiteral:
		return Unit{}, nil
	case *ast.PathExpression:
		v, _, err := e.readPath(n)
		return v, err
	case *ast.InfixExpression:
		return e.evalInfix(n)
	case *ast.PrefixExpression:
		return e.evalPrefix(n)
	case *ast.AssignExpression:
		return e.evalAssign(n)
	case *ast.CallExpression:
		return e.evalCall(n)
	case *ast.StructLiteral:
		return e.evalStructLiteral(n)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n, expected)
	case *ast.IndexExpression:
		return e.evalIndex(n)
	case *ast.IfExpression:
		return e.evalIf(n, expected)
	case *ast.BlockExpression:
		return e.evalBlock(n, expected)
	case *ast.ClosureExpression:
		return e.evalClosure(n, expected)
	}
	return nil, unsupported(expr)
}

// moduleValue resolves a path that names no local through the module's
// top-level definitions. It returns the binding and the remaining field
// segments.
func (e *Evaluator) moduleValue(path *ast.PathExpression) (modules.Binding, []string, error) {
	def, ok := e.ctx.Module().Definition(path.Segments)
	if !ok {
		return modules.Binding{}, nil, newError(UnknownIdentifier, path.Token, "unknown identifier %s", path.Root())
	}
	switch def.Kind {
	case modules.TypeDefinition:
		return modules.Binding{}, nil, newError(UnknownIdentifier, path.Token, "%s is a type, not a value", path)
	case modules.ModuleDefinition:
		return modules.Binding{}, nil, newError(UnknownIdentifier, path.Token, "%s is a module, not a value", path)
	}
	return def.Value, def.Rest, nil
}

// readPath reads the value a path names, walking struct fields.
func (e *Evaluator) readPath(path *ast.PathExpression) (Value, typesystem.TypeID, error) {
	root := path.Root()
	var (
		v    Value
		t    typesystem.TypeID
		rest []string
		addr int
	)
	if l, owner, ok := e.ctx.FindLocal(root); ok {
		if owner.expired {
			return nil, 0, newError(StaleReference, path.Token, "%s belongs to a call that has returned", root)
		}
		if !l.Initialized() {
			return nil, 0, newError(UnknownIdentifier, path.Token, "%s is used before it is initialized", root)
		}
		t, rest, addr = l.Type, path.Segments[1:], l.Addr
	} else {
		b, fields, err := e.moduleValue(path)
		if err != nil {
			return nil, 0, err
		}
		t, rest, addr = b.Type, fields, b.Addr
	}
	slot, err := e.stack.Get(addr)
	if err != nil {
		return nil, 0, newError(StaleReference, path.Token, "%s: %v", root, err)
	}
	v = Deref(slot)

	for _, field := range rest {
		obj, offset, ft, err := e.fieldOf(path, v, t, field)
		if err != nil {
			return nil, 0, err
		}
		v, t = Deref(obj.Values[offset]), ft
	}
	return v, t, nil
}

// fieldOf locates field within v, a value of struct type t.
func (e *Evaluator) fieldOf(path *ast.PathExpression, v Value, t typesystem.TypeID, field string) (*Object, int, typesystem.TypeID, error) {
	st, err := e.resolved(path.Token, t)
	if err != nil {
		return nil, 0, 0, err
	}
	offset, f, ok := st.Field(field)
	if !ok || !st.IsStruct() {
		return nil, 0, 0, newError(UnknownOrMissingStructField, path.Token, "%s: %s has no field %s", path, st.Name, field)
	}
	obj, ok := v.(*Object)
	if !ok || offset >= len(obj.Values) {
		return nil, 0, 0, newError(TypeMismatch, path.Token, "%s: value is not a %s instance", path, st.Name)
	}
	return obj, offset, f.Type, nil
}

func (e *Evaluator) evalInfix(ie *ast.InfixExpression) (Value, error) {
	if _, err := e.infixType(ie); err != nil {
		return nil, err
	}

	if ie.Operator == "&&" || ie.Operator == "||" {
		left, err := e.eval(ie.Left, typesystem.BoolID)
		if err != nil {
			return nil, err
		}
		l := left.(Boolean).Value
		if (ie.Operator == "&&" && !l) || (ie.Operator == "||" && l) {
			return Boolean{Value: l}, nil
		}
		right, err := e.eval(ie.Right, typesystem.BoolID)
		if err != nil {
			return nil, err
		}
		return right, nil
	}

	leftType, _ := e.typeOf(ie.Left, typesystem.NoType)
	left, err := e.eval(ie.Left, typesystem.NoType)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(ie.Right, leftType)
	if err != nil {
		return nil, err
	}

	switch ie.Operator {
	case "==":
		return Boolean{Value: ValuesEqual(left, right)}, nil
	case "!=":
		return Boolean{Value: !ValuesEqual(left, right)}, nil
	}

	switch l := left.(type) {
	case Integer:
		return e.integerInfix(ie, l.Value, right.(Integer).Value)
	case Float:
		return floatInfix(ie.Operator, l.Value, right.(Float).Value), nil
	case Char:
		return Boolean{Value: compare(ie.Operator, l.Value, right.(Char).Value)}, nil
	}
	return nil, newError(TypeMismatch, ie.Token, "%s is not defined on %s", ie.Operator, left.Type())
}

func (e *Evaluator) integerInfix(ie *ast.InfixExpression, l, r int64) (Value, error) {
	switch ie.Operator {
	case "+":
		return Integer{Value: l + r}, nil
	case "-":
		return Integer{Value: l - r}, nil
	case "*":
		return Integer{Value: l * r}, nil
	case "/", "%":
		if r == 0 {
			return nil, newError(DivisionByZero, ie.Token, "integer division by zero")
		}
		if ie.Operator == "/" {
			return Integer{Value: l / r}, nil
		}
		return Integer{Value: l % r}, nil
	}
	return Boolean{Value: compare(ie.Operator, l, r)}, nil
}

func floatInfix(op string, l, r float64) Value {
	switch op {
	case "+":
		return Float{Value: l + r}
	case "-":
		return Float{Value: l - r}
	case "*":
		return Float{Value: l * r}
	case "/":
		return Float{Value: l / r}
	case "%":
		return Float{Value: math.Mod(l, r)}
	}
	return Boolean{Value: compare(op, l, r)}
}

func compare[T int64 | float64 | rune](op string, l, r T) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}

func (e *Evaluator) evalPrefix(pe *ast.PrefixExpression) (Value, error) {
	if _, err := e.prefixType(pe); err != nil {
		return nil, err
	}
	right, err := e.eval(pe.Right, typesystem.NoType)
	if err != nil {
		return nil, err
	}
	switch v := right.(type) {
	case Integer:
		return Integer{Value: -v.Value}, nil
	case Float:
		return Float{Value: -v.Value}, nil
	case Boolean:
		return Boolean{Value: !v.Value}, nil
	}
	return nil, newError(TypeMismatch, pe.Token, "%s is not defined on %s", pe.Operator, right.Type())
}

// evalAssign stores a value into a variable or a struct field. The first
// assignment to a declared-but-uninitialized name allocates its slot, which
// is only possible from the scope that declared it.
func (e *Evaluator) evalAssign(ae *ast.AssignExpression) (Value, error) {
	path, ok := ae.Target.(*ast.PathExpression)
	if !ok {
		return nil, newError(InvalidAssignmentTarget, ae.Target.GetToken(), "only variables and struct fields can be assigned")
	}
	target, err := e.pathType(path)
	if err != nil {
		return nil, err
	}
	vt, err := e.typeOf(ae.Value, target)
	if err != nil {
		return nil, err
	}
	same, err := e.equal(ae.Token, target, vt)
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, newError(TypeMismatch, ae.Token, "cannot assign %s to %s of type %s",
			e.typeName(vt), path, e.typeName(target))
	}

	if len(path.Segments) == 1 {
		if l, owner, ok := e.ctx.FindLocal(path.Root()); ok && !l.Initialized() {
			if owner != e.ctx {
				return nil, newError(InvalidAssignmentTarget, ae.Token, "%s must be initialized in the scope that declares it", path)
			}
			v, err := e.eval(ae.Value, target)
			if err != nil {
				return nil, err
			}
			e.bind(path.Root(), l.Type, v)
			return Unit{}, nil
		}
	}

	v, err := e.eval(ae.Value, target)
	if err != nil {
		return nil, err
	}
	if err := e.writePath(path, v); err != nil {
		return nil, err
	}
	return Unit{}, nil
}

func (e *Evaluator) writePath(path *ast.PathExpression, v Value) error {
	root := path.Root()
	var (
		t    typesystem.TypeID
		rest []string
		addr int
	)
	if l, owner, ok := e.ctx.FindLocal(root); ok {
		if owner.expired {
			return newError(StaleReference, path.Token, "%s belongs to a call that has returned", root)
		}
		t, rest, addr = l.Type, path.Segments[1:], l.Addr
	} else {
		b, fields, err := e.moduleValue(path)
		if err != nil {
			return err
		}
		t, rest, addr = b.Type, fields, b.Addr
	}

	if len(rest) == 0 {
		if err := e.stack.Set(addr, v); err != nil {
			return newError(StaleReference, path.Token, "%s: %v", root, err)
		}
		return nil
	}

	slot, err := e.stack.Get(addr)
	if err != nil {
		return newError(StaleReference, path.Token, "%s: %v", root, err)
	}
	cur := Deref(slot)
	for i, field := range rest {
		obj, offset, ft, err := e.fieldOf(path, cur, t, field)
		if err != nil {
			return err
		}
		if i == len(rest)-1 {
			obj.Values[offset] = v
			return nil
		}
		cur, t = Deref(obj.Values[offset]), ft
	}
	return nil
}

// evalStructLiteral builds an instance whose fields are stored in declared
// order. Every declared field must be given exactly once.
func (e *Evaluator) evalStructLiteral(sl *ast.StructLiteral) (Value, error) {
	st, err := e.structType(sl.Type)
	if err != nil {
		return nil, err
	}
	fields, _ := st.AsStruct()

	given := make(map[string]*ast.FieldValue, len(sl.Fields))
	var duplicate *ast.FieldValue
	for _, fv := range sl.Fields {
		if _, seen := given[fv.Name]; seen && duplicate == nil {
			duplicate = fv
		}
		given[fv.Name] = fv
	}
	for _, f := range fields {
		if _, ok := given[f.Name]; !ok {
			return nil, newError(UnknownOrMissingStructField, sl.Token, "missing field %s in %s literal", f.Name, st.Name)
		}
	}
	if duplicate != nil {
		return nil, newError(UnknownOrMissingStructField, duplicate.Token, "field %s is given twice", duplicate.Name)
	}
	var unknown []string
	for _, fv := range sl.Fields {
		if _, _, ok := st.Field(fv.Name); !ok {
			unknown = append(unknown, fv.Name)
		}
	}
	if len(unknown) > 0 {
		return nil, newError(UnknownOrMissingStructField, sl.Token, "unknown field(s) %s in %s literal",
			strings.Join(unknown, ", "), st.Name)
	}

	values := make([]Value, len(fields))
	for i, f := range fields {
		fv := given[f.Name]
		t, err := e.typeOf(fv.Value, f.Type)
		if err != nil {
			return nil, err
		}
		same, err := e.equal(fv.Token, f.Type, t)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, newError(TypeMismatch, fv.Token, "field %s of %s is %s, found %s",
				f.Name, st.Name, e.typeName(f.Type), e.typeName(t))
		}
		v, err := e.eval(fv.Value, f.Type)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &Object{TypeID: st.ID, Values: values}, nil
}

func (e *Evaluator) evalArrayLiteral(al *ast.ArrayLiteral, expected typesystem.TypeID) (Value, error) {
	id, err := e.arrayType(al, expected)
	if err != nil {
		return nil, err
	}
	t, err := e.resolved(al.Token, id)
	if err != nil {
		return nil, err
	}
	elem, _ := t.AsArray()
	values := make([]Value, len(al.Elements))
	for i, el := range al.Elements {
		v, err := e.eval(el, elem)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &Object{TypeID: t.ID, Values: values}, nil
}

func (e *Evaluator) evalIndex(ie *ast.IndexExpression) (Value, error) {
	if _, err := e.indexType(ie); err != nil {
		return nil, err
	}
	left, err := e.eval(ie.Left, typesystem.NoType)
	if err != nil {
		return nil, err
	}
	index, err := e.eval(ie.Index, typesystem.IntID)
	if err != nil {
		return nil, err
	}
	arr, ok := left.(*Object)
	if !ok {
		return nil, newError(NotIndexable, ie.Token, "cannot index %s", left.Type())
	}
	i := index.(Integer).Value
	if i < 0 || i >= int64(len(arr.Values)) {
		return nil, newError(IndexOutOfRange, ie.Index.GetToken(), "index %d out of range for array of length %d", i, len(arr.Values))
	}
	return Deref(arr.Values[i]), nil
}

func (e *Evaluator) evalIf(ie *ast.IfExpression, expected typesystem.TypeID) (Value, error) {
	if _, err := e.ifType(ie, expected); err != nil {
		return nil, err
	}
	cond, err := e.eval(ie.Condition, typesystem.BoolID)
	if err != nil {
		return nil, err
	}
	if cond.(Boolean).Value {
		v, err := e.evalBlock(ie.Consequence, expected)
		if err != nil {
			return nil, err
		}
		if ie.Alternative == nil {
			return Unit{}, nil
		}
		return v, nil
	}
	if ie.Alternative == nil {
		return Unit{}, nil
	}
	return e.evalBlock(ie.Alternative, expected)
}

// evalBlock runs statements in the current scope and frame; blocks do not
// open scopes of their own. The last statement's value is the result.
func (e *Evaluator) evalBlock(b *ast.BlockExpression, expected typesystem.TypeID) (Value, error) {
	var result Value = Unit{}
	last := len(b.Statements) - 1
	for i, stmt := range b.Statements {
		want := typesystem.NoType
		if i == last {
			want = expected
		}
		v, err := e.evalStatement(stmt, want)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// evalClosure creates a function value over the current scope and captures
// the variables its body uses.
func (e *Evaluator) evalClosure(ce *ast.ClosureExpression, expected typesystem.TypeID) (Value, error) {
	if _, err := e.closureLayout(ce, expected); err != nil {
		return nil, err
	}
	fn := &Function{
		Context: e.ctx,
		Body:    ce.Body,
		Params:  closureParams(ce),
		TypeID:  expected,
	}
	if err := e.capture(fn); err != nil {
		return nil, err
	}
	return fn, nil
}
