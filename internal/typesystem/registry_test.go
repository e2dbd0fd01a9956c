package typesystem

import (
	"errors"
	"testing"

	"github.com/focus-lang/focus/internal/ast"
)

func named(path ...string) *ast.NamedType { return &ast.NamedType{Path: path} }

func TestPrimitivesAreInternedFirst(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		id   TypeID
		name string
		kind Kind
	}{
		{UnitID, UnitName, KindUnit},
		{BoolID, BoolName, KindBoolean},
		{CharID, CharName, KindChar},
		{IntID, IntName, KindInteger},
		{FloatID, FloatName, KindFloat},
		{ObjectID, ObjectName, KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := r.Lookup(tt.name)
			if !ok {
				t.Fatalf("%s not registered", tt.name)
			}
			if typ.ID != tt.id || typ.Kind() != tt.kind {
				t.Errorf("got id=%d kind=%s, want id=%d kind=%s", typ.ID, typ.Kind(), tt.id, tt.kind)
			}
		})
	}
	if r.Len() != 6 {
		t.Errorf("expected 6 primitives, got %d", r.Len())
	}
}

func TestCompoundTypesShareEntries(t *testing.T) {
	r := NewRegistry()

	a, err := r.FunctionOf([]TypeID{IntID, IntID}, BoolID)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.ResolveExpr(&ast.FunctionType{Params: []ast.Type{named("int"), named("int")}, Return: named("bool")})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("two spellings of one function type got ids %d and %d", a, b)
	}
	if name := r.Name(a); name != "( int -> int -> bool )" {
		t.Errorf("function type name = %q", name)
	}

	thunk, _ := r.FunctionOf(nil, IntID)
	typ, _ := r.Get(thunk)
	layout, ok := typ.AsFunction()
	if !ok || len(layout.Params) != 1 || layout.Params[0] != UnitID {
		t.Errorf("a function without parameters takes unit, got %+v", layout)
	}

	arr, err := r.ResolveExpr(&ast.ArrayType{Element: named("char")})
	if err != nil {
		t.Fatal(err)
	}
	again, _ := r.ArrayOf(CharID)
	if arr != again || r.Name(arr) != "array of char" {
		t.Errorf("array types: %d %d %q", arr, again, r.Name(arr))
	}
}

func TestStructsAndAliases(t *testing.T) {
	r := NewRegistry()
	point, err := r.DeclareStruct("Point", ast.Public, []*ast.FieldDeclaration{
		{Name: "x", Type: named("int")},
		{Name: "y", Type: named("int"), Visibility: ast.Public},
	})
	if err != nil {
		t.Fatal(err)
	}

	place, err := r.DeclareAlias("Place", ast.Private, named("Point"))
	if err != nil {
		t.Fatal(err)
	}
	same, err := r.Equal(place, point)
	if err != nil || !same {
		t.Errorf("an alias equals its target: %v %v", same, err)
	}

	resolved, err := r.Resolve(place)
	if err != nil {
		t.Fatal(err)
	}
	idx, field, ok := resolved.Field("y")
	if !ok || idx != 1 || field.Type != IntID || field.Visibility != ast.Public {
		t.Errorf("Field(y) = %d %+v %v", idx, field, ok)
	}

	other, _ := r.DeclareStruct("Other", ast.Private, []*ast.FieldDeclaration{
		{Name: "x", Type: named("int")},
		{Name: "y", Type: named("int")},
	})
	if same, _ := r.Equal(point, other); same {
		t.Errorf("structs with the same fields are still distinct types")
	}

	unit, _ := r.DeclareAlias("Marker", ast.Private, nil)
	if same, _ := r.Equal(unit, UnitID); !same {
		t.Errorf("a type without a body aliases unit")
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.DeclareStruct("P", ast.Private, nil); err != nil {
		t.Fatal(err)
	}

	_, err := r.DeclareStruct("P", ast.Private, nil)
	var dup *DuplicateTypeError
	if !errors.As(err, &dup) || dup.Name != "P" {
		t.Errorf("expected DuplicateTypeError, got %v", err)
	}

	_, err = r.DeclareStruct("Q", ast.Private, []*ast.FieldDeclaration{
		{Name: "a", Type: named("int")},
		{Name: "a", Type: named("bool")},
	})
	var dupField *DuplicateFieldError
	if !errors.As(err, &dupField) || dupField.Field != "a" {
		t.Errorf("expected DuplicateFieldError, got %v", err)
	}

	_, err = r.DeclareStruct("Node", ast.Private, []*ast.FieldDeclaration{
		{Name: "next", Type: named("Node")},
	})
	var unresolved *UnresolvedTypeError
	if !errors.As(err, &unresolved) || unresolved.Name != "Node" {
		t.Errorf("a struct cannot reference itself, got %v", err)
	}
	if _, ok := r.Lookup("Node"); ok {
		t.Errorf("a failed declaration must not register the type")
	}

	if _, err := r.Resolve(TypeID(999)); err == nil {
		t.Errorf("expected an error for an unknown id")
	}
	if _, err := r.Resolve(NoType); err == nil {
		t.Errorf("NoType must never resolve")
	}
}

type fakeNamespace map[string]TypeID

func (f fakeNamespace) LookupType(path []string) (TypeID, bool) {
	if len(path) != 2 {
		return 0, false
	}
	id, ok := f[path[0]+"."+path[1]]
	return id, ok
}

func TestQualifiedNamesUseNamespace(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ResolveExpr(named("geo", "Point")); err == nil {
		t.Fatalf("expected an error without a namespace")
	}
	r.SetNamespace(fakeNamespace{"geo.Point": FloatID})
	id, err := r.ResolveExpr(named("geo", "Point"))
	if err != nil || id != FloatID {
		t.Errorf("ResolveExpr(geo.Point) = %d, %v", id, err)
	}
}
