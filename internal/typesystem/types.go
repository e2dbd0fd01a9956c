package typesystem

import "github.com/focus-lang/focus/internal/ast"

// TypeID indexes the registry's type table.
type TypeID uint32

// Primitive types are interned first, in this order, by every registry.
const (
	UnitID TypeID = iota
	BoolID
	CharID
	IntID
	FloatID
	ObjectID
)

// NoType is never interned. It marks an absent type, such as a missing
// expected type during inference.
const NoType = ^TypeID(0)

const (
	UnitName   = "()"
	BoolName   = "bool"
	CharName   = "char"
	IntName    = "int"
	FloatName  = "float"
	ObjectName = "object"
)

type Kind int

const (
	KindUnit Kind = iota
	KindBoolean
	KindChar
	KindInteger
	KindFloat
	KindObject
	KindFunction
	KindArray
	KindAlias
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindArray:
		return "array"
	case KindAlias:
		return "alias"
	case KindStruct:
		return "struct"
	}
	return "unknown"
}

// FuncLayout describes a function type. A function declared without
// parameters takes a single unit argument.
type FuncLayout struct {
	Params []TypeID
	Return TypeID
}

type StructField struct {
	Name       string
	Visibility ast.Visibility
	Type       TypeID
}

// Layout is the shape of a type. Only the members matching Kind are set.
type Layout struct {
	Kind   Kind
	Func   *FuncLayout   // KindFunction
	Elem   TypeID        // KindArray
	Target TypeID        // KindAlias
	Fields []StructField // KindStruct
}

type Type struct {
	Name       string
	ID         TypeID
	Layout     Layout
	Visibility ast.Visibility
}

func (t *Type) Kind() Kind { return t.Layout.Kind }

func (t *Type) IsBoolean() bool { return t.Layout.Kind == KindBoolean }
func (t *Type) IsChar() bool    { return t.Layout.Kind == KindChar }
func (t *Type) IsInteger() bool { return t.Layout.Kind == KindInteger }
func (t *Type) IsFloat() bool   { return t.Layout.Kind == KindFloat }
func (t *Type) IsAlias() bool   { return t.Layout.Kind == KindAlias }
func (t *Type) IsStruct() bool  { return t.Layout.Kind == KindStruct }

// IsNumeric reports whether arithmetic is defined on t.
func (t *Type) IsNumeric() bool { return t.IsInteger() || t.IsFloat() }

// IsOrdered reports whether < and > are defined on t.
func (t *Type) IsOrdered() bool { return t.IsNumeric() || t.IsChar() }

func (t *Type) AsFunction() (*FuncLayout, bool) {
	return t.Layout.Func, t.Layout.Kind == KindFunction
}

func (t *Type) AsStruct() ([]StructField, bool) {
	return t.Layout.Fields, t.Layout.Kind == KindStruct
}

func (t *Type) AsArray() (TypeID, bool) {
	return t.Layout.Elem, t.Layout.Kind == KindArray
}

// Field returns the offset and declaration of a struct field.
func (t *Type) Field(name string) (int, *StructField, bool) {
	for i := range t.Layout.Fields {
		if t.Layout.Fields[i].Name == name {
			return i, &t.Layout.Fields[i], true
		}
	}
	return -1, nil, false
}
