package modules

import (
	"sort"
	"strings"

	"github.com/focus-lang/focus/internal/typesystem"
)

// DefaultModuleName is the module every top-level statement belongs to.
const DefaultModuleName = "main"

// Binding locates a top-level value: its declared type and its slot in the
// interpreter's root frame, which lives as long as the interpreter.
type Binding struct {
	Type typesystem.TypeID
	Addr int
}

// Module is a named scope of top-level values, types and sub-modules.
type Module struct {
	Name    string
	Parent  *Module
	values  map[string]Binding
	types   map[string]typesystem.TypeID
	modules map[string]*Module
}

func New(name string) *Module {
	return &Module{
		Name:    name,
		values:  make(map[string]Binding),
		types:   make(map[string]typesystem.TypeID),
		modules: make(map[string]*Module),
	}
}

// NewChild creates a sub-module of parent and registers it there.
func NewChild(name string, parent *Module) *Module {
	m := New(name)
	m.Parent = parent
	parent.modules[name] = m
	return m
}

func (m *Module) DefineValue(name string, b Binding) {
	m.values[name] = b
}

func (m *Module) DefineType(name string, id typesystem.TypeID) {
	m.types[name] = id
}

// DefinitionKind tells which table a Definition came from.
type DefinitionKind int

const (
	ValueDefinition DefinitionKind = iota
	TypeDefinition
	ModuleDefinition
)

type Definition struct {
	Kind   DefinitionKind
	Value  Binding
	Type   typesystem.TypeID
	Module *Module
	// Rest holds the path segments after the definition, e.g. struct fields.
	Rest []string
}

// Definition resolves path against this module, descending through
// sub-modules. A leading segment naming the module itself is skipped, so
// `main.x` and `x` are the same definition inside module main.
func (m *Module) Definition(path []string) (Definition, bool) {
	if len(path) > 1 && path[0] == m.Name {
		if _, shadowed := m.modules[m.Name]; !shadowed {
			path = path[1:]
		}
	}
	if len(path) == 0 {
		return Definition{}, false
	}
	head, rest := path[0], path[1:]
	if sub, ok := m.modules[head]; ok {
		if len(rest) == 0 {
			return Definition{Kind: ModuleDefinition, Module: sub}, true
		}
		return sub.Definition(rest)
	}
	if b, ok := m.values[head]; ok {
		return Definition{Kind: ValueDefinition, Value: b, Rest: rest}, true
	}
	if id, ok := m.types[head]; ok {
		return Definition{Kind: TypeDefinition, Type: id, Rest: rest}, true
	}
	return Definition{}, false
}

// LookupType resolves a qualified type name.
func (m *Module) LookupType(path []string) (typesystem.TypeID, bool) {
	def, ok := m.Definition(path)
	if !ok || def.Kind != TypeDefinition || len(def.Rest) > 0 {
		return 0, false
	}
	return def.Type, true
}

// QualifiedName prefixes name with the chain of enclosing module names.
func (m *Module) QualifiedName(name string) string {
	var parts []string
	for cur := m; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(append(parts, name), ".")
}

// ValueNames returns the names of the module's values in sorted order.
func (m *Module) ValueNames() []string {
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the binding of a value defined directly in this module.
func (m *Module) Value(name string) (Binding, bool) {
	b, ok := m.values[name]
	return b, ok
}
