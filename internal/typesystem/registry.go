package typesystem

import (
	"fmt"
	"strings"

	"github.com/focus-lang/focus/internal/ast"
)

// Namespace resolves module-qualified type names such as `geo.Point`.
type Namespace interface {
	LookupType(path []string) (TypeID, bool)
}

// Registry interns every type of one interpreter. Equality is nominal:
// two ids are equal when they resolve, through aliases, to the same entry.
// Function and array types are synthesized on demand under canonical names,
// so two spellings of the same compound type share one entry.
type Registry struct {
	types     []*Type
	byName    map[string]TypeID
	namespace Namespace
}

func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]TypeID)}
	r.intern(UnitName, Layout{Kind: KindUnit}, ast.Public)
	r.intern(BoolName, Layout{Kind: KindBoolean}, ast.Public)
	r.intern(CharName, Layout{Kind: KindChar}, ast.Public)
	r.intern(IntName, Layout{Kind: KindInteger}, ast.Public)
	r.intern(FloatName, Layout{Kind: KindFloat}, ast.Public)
	r.intern(ObjectName, Layout{Kind: KindObject}, ast.Public)
	return r
}

// SetNamespace installs the resolver used for qualified type names.
func (r *Registry) SetNamespace(ns Namespace) {
	r.namespace = ns
}

func (r *Registry) intern(name string, layout Layout, vis ast.Visibility) TypeID {
	id := TypeID(len(r.types))
	r.types = append(r.types, &Type{Name: name, ID: id, Layout: layout, Visibility: vis})
	r.byName[name] = id
	return id
}

// Len returns the number of interned types.
func (r *Registry) Len() int {
	return len(r.types)
}

func (r *Registry) Get(id TypeID) (*Type, bool) {
	if int(id) >= len(r.types) {
		return nil, false
	}
	return r.types[id], true
}

func (r *Registry) Lookup(name string) (*Type, bool) {
	id, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.types[id], true
}

// Name returns the declared name of id, for messages.
func (r *Registry) Name(id TypeID) string {
	if t, ok := r.Get(id); ok {
		return t.Name
	}
	return fmt.Sprintf("<type %d>", id)
}

// Resolve follows alias links from id to the underlying type.
func (r *Registry) Resolve(id TypeID) (*Type, error) {
	t, ok := r.Get(id)
	// aliases only point backwards, so the chain is at most len(types) long
	for steps := 0; ok && t.IsAlias(); steps++ {
		if steps > len(r.types) {
			return nil, fmt.Errorf("alias cycle through %s", t.Name)
		}
		t, ok = r.Get(t.Layout.Target)
	}
	if !ok {
		return nil, fmt.Errorf("type id %d is not registered", id)
	}
	return t, nil
}

// Equal reports nominal equality of a and b.
func (r *Registry) Equal(a, b TypeID) (bool, error) {
	ta, err := r.Resolve(a)
	if err != nil {
		return false, err
	}
	tb, err := r.Resolve(b)
	if err != nil {
		return false, err
	}
	return ta.ID == tb.ID, nil
}

// ResolveExpr turns a type expression into an interned type.
func (r *Registry) ResolveExpr(expr ast.Type) (TypeID, error) {
	switch t := expr.(type) {
	case *ast.UnitType:
		return UnitID, nil
	case *ast.NamedType:
		if len(t.Path) == 1 {
			if id, ok := r.byName[t.Path[0]]; ok {
				return id, nil
			}
		}
		if r.namespace != nil {
			if id, ok := r.namespace.LookupType(t.Path); ok {
				return id, nil
			}
		}
		return 0, NewUnresolvedTypeError(t.String())
	case *ast.ArrayType:
		elem, err := r.ResolveExpr(t.Element)
		if err != nil {
			return 0, err
		}
		return r.ArrayOf(elem)
	case *ast.FunctionType:
		params := make([]TypeID, 0, len(t.Params))
		for _, p := range t.Params {
			id, err := r.ResolveExpr(p)
			if err != nil {
				return 0, err
			}
			params = append(params, id)
		}
		ret, err := r.ResolveExpr(t.Return)
		if err != nil {
			return 0, err
		}
		return r.FunctionOf(params, ret)
	case nil:
		return 0, NewUnresolvedTypeError("<missing>")
	}
	return 0, NewUnresolvedTypeError(expr.String())
}

// FunctionOf returns the function type taking params and returning ret.
// An empty parameter list means a single unit parameter.
func (r *Registry) FunctionOf(params []TypeID, ret TypeID) (TypeID, error) {
	if len(params) == 0 {
		params = []TypeID{UnitID}
	}
	names := make([]string, 0, len(params)+1)
	for _, p := range append(params[:len(params):len(params)], ret) {
		t, err := r.Resolve(p)
		if err != nil {
			return 0, err
		}
		names = append(names, t.Name)
	}
	name := "( " + strings.Join(names, " -> ") + " )"
	if id, ok := r.byName[name]; ok {
		return id, nil
	}
	layout := Layout{Kind: KindFunction, Func: &FuncLayout{Params: append([]TypeID(nil), params...), Return: ret}}
	return r.intern(name, layout, ast.Public), nil
}

// ArrayOf returns the array type with elements of elem.
func (r *Registry) ArrayOf(elem TypeID) (TypeID, error) {
	t, err := r.Resolve(elem)
	if err != nil {
		return 0, err
	}
	name := "array of " + t.Name
	if id, ok := r.byName[name]; ok {
		return id, nil
	}
	return r.intern(name, Layout{Kind: KindArray, Elem: elem}, ast.Public), nil
}

// DeclareStruct registers a struct. Every field type must already exist,
// so structs can neither reference themselves nor later declarations.
func (r *Registry) DeclareStruct(name string, vis ast.Visibility, decls []*ast.FieldDeclaration) (TypeID, error) {
	if _, exists := r.byName[name]; exists {
		return 0, &DuplicateTypeError{Name: name}
	}
	fields := make([]StructField, 0, len(decls))
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if seen[d.Name] {
			return 0, &DuplicateFieldError{Type: name, Field: d.Name}
		}
		seen[d.Name] = true
		id, err := r.ResolveExpr(d.Type)
		if err != nil {
			return 0, err
		}
		fields = append(fields, StructField{Name: d.Name, Visibility: d.Visibility, Type: id})
	}
	return r.intern(name, Layout{Kind: KindStruct, Fields: fields}, vis), nil
}

// DeclareAlias registers name as another name for target; a nil target
// aliases unit.
func (r *Registry) DeclareAlias(name string, vis ast.Visibility, target ast.Type) (TypeID, error) {
	if _, exists := r.byName[name]; exists {
		return 0, &DuplicateTypeError{Name: name}
	}
	targetID := UnitID
	if target != nil {
		id, err := r.ResolveExpr(target)
		if err != nil {
			return 0, err
		}
		targetID = id
	}
	return r.intern(name, Layout{Kind: KindAlias, Target: targetID}, vis), nil
}
