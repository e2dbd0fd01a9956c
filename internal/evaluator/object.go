package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/prettyprinter"
	"github.com/focus-lang/focus/internal/typesystem"
)

type ValueType string

const (
	UNIT_VAL     = "UNIT"
	BOOLEAN_VAL  = "BOOLEAN"
	CHAR_VAL     = "CHAR"
	INTEGER_VAL  = "INTEGER"
	FLOAT_VAL    = "FLOAT"
	REF_VAL      = "REF"
	OBJECT_VAL   = "OBJECT"
	FUNCTION_VAL = "FUNCTION"
)

// Value is anything a slot can hold. Scalars are Go values and are copied
// on every read; objects, functions and refs are shared pointers.
type Value interface {
	Type() ValueType
	Inspect() string
}

type Unit struct{}

func (Unit) Type() ValueType { return UNIT_VAL }
func (Unit) Inspect() string { return "()" }

type Boolean struct {
	Value bool
}

func (b Boolean) Type() ValueType { return BOOLEAN_VAL }
func (b Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

type Char struct {
	Value rune
}

func (c Char) Type() ValueType { return CHAR_VAL }
func (c Char) Inspect() string { return prettyprinter.QuoteChar(c.Value) }

type Integer struct {
	Value int64
}

func (i Integer) Type() ValueType { return INTEGER_VAL }
func (i Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f Float) Type() ValueType { return FLOAT_VAL }
func (f Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Ref is a shared cell. Captured variables live in refs so that every
// closure over a name, and the scope that declared it, see one value.
type Ref struct {
	Value Value
}

func (r *Ref) Type() ValueType { return REF_VAL }
func (r *Ref) Inspect() string { return Deref(r).Inspect() }

// Object is a struct instance or an array: a type id plus an ordered list
// of values. Struct values follow the declared field order.
type Object struct {
	TypeID typesystem.TypeID
	Values []Value
}

func (o *Object) Type() ValueType { return OBJECT_VAL }
func (o *Object) Inspect() string {
	parts := make([]string, len(o.Values))
	for i, v := range o.Values {
		parts[i] = v.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CapturedName is a variable a function closed over when it was created.
type CapturedName struct {
	Name string
	Cell *Ref
	Type typesystem.TypeID
}

// Function is a callable value. Context is the scope the function was
// created in; calls run in a fresh child of it.
type Function struct {
	Name     string
	Context  *Context
	Body     *ast.BlockExpression
	Params   []string
	Captured []CapturedName
	TypeID   typesystem.TypeID
}

func (f *Function) Type() ValueType { return FUNCTION_VAL }
func (f *Function) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("<function %s>", f.Name)
	}
	return "<function>"
}

// Deref unwraps refs until it reaches a plain value.
func Deref(v Value) Value {
	for {
		r, ok := v.(*Ref)
		if !ok || r == nil {
			return v
		}
		v = r.Value
	}
}

// ValuesEqual compares two values of the same type. Objects compare
// structurally, functions by identity.
func ValuesEqual(a, b Value) bool {
	a, b = Deref(a), Deref(b)
	switch av := a.(type) {
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Char:
		bv, ok := b.(Char)
		return ok && av.Value == bv.Value
	case Integer:
		bv, ok := b.(Integer)
		return ok && av.Value == bv.Value
	case Float:
		bv, ok := b.(Float)
		return ok && av.Value == bv.Value
	case *Object:
		bv, ok := b.(*Object)
		if !ok || len(av.Values) != len(bv.Values) {
			return false
		}
		for i := range av.Values {
			if !ValuesEqual(av.Values[i], bv.Values[i]) {
				return false
			}
		}
		return true
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	}
	return false
}
