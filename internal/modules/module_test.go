package modules

import (
	"reflect"
	"testing"

	"github.com/focus-lang/focus/internal/typesystem"
)

func TestDefinitionLookup(t *testing.T) {
	root := New(DefaultModuleName)
	root.DefineValue("x", Binding{Type: typesystem.IntID, Addr: 0})
	root.DefineType("Point", typesystem.ObjectID)
	geo := NewChild("geo", root)
	geo.DefineValue("origin", Binding{Type: typesystem.ObjectID, Addr: 3})

	tests := []struct {
		name string
		path []string
		kind DefinitionKind
		rest []string
		ok   bool
	}{
		{"value", []string{"x"}, ValueDefinition, []string{}, true},
		{"self qualified", []string{"main", "x"}, ValueDefinition, []string{}, true},
		{"field path", []string{"x", "a", "b"}, ValueDefinition, []string{"a", "b"}, true},
		{"type", []string{"Point"}, TypeDefinition, []string{}, true},
		{"module", []string{"geo"}, ModuleDefinition, nil, true},
		{"nested value", []string{"geo", "origin", "x"}, ValueDefinition, []string{"x"}, true},
		{"missing", []string{"y"}, 0, nil, false},
		{"empty", nil, 0, nil, false},
		{"module only prefix", []string{"main"}, 0, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := root.Definition(tt.path)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if def.Kind != tt.kind {
				t.Errorf("kind = %d, want %d", def.Kind, tt.kind)
			}
			if tt.rest != nil && !reflect.DeepEqual(def.Rest, tt.rest) {
				t.Errorf("rest = %v, want %v", def.Rest, tt.rest)
			}
		})
	}

	def, _ := root.Definition([]string{"geo", "origin"})
	if def.Value.Addr != 3 {
		t.Errorf("nested binding = %+v", def.Value)
	}
}

func TestLookupType(t *testing.T) {
	root := New(DefaultModuleName)
	geo := NewChild("geo", root)
	geo.DefineType("Point", typesystem.TypeID(7))
	geo.DefineValue("p", Binding{Type: typesystem.TypeID(7)})

	if id, ok := root.LookupType([]string{"geo", "Point"}); !ok || id != 7 {
		t.Errorf("LookupType(geo.Point) = %d, %v", id, ok)
	}
	if _, ok := root.LookupType([]string{"geo", "p"}); ok {
		t.Errorf("a value is not a type")
	}
	if _, ok := root.LookupType([]string{"geo", "Point", "x"}); ok {
		t.Errorf("a type path cannot continue into fields")
	}
}

func TestQualifiedNames(t *testing.T) {
	root := New(DefaultModuleName)
	inner := NewChild("geo", NewChild("math", root))
	if got := inner.QualifiedName("dist"); got != "main.math.geo.dist" {
		t.Errorf("QualifiedName = %q", got)
	}
	if got := root.QualifiedName("x"); got != "main.x" {
		t.Errorf("QualifiedName = %q", got)
	}
}

func TestValueNamesSorted(t *testing.T) {
	m := New(DefaultModuleName)
	for i, name := range []string{"c", "a", "b"} {
		m.DefineValue(name, Binding{Addr: i})
	}
	if got := m.ValueNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("ValueNames = %v", got)
	}
	if b, ok := m.Value("a"); !ok || b.Addr != 1 {
		t.Errorf("Value(a) = %+v, %v", b, ok)
	}
}
