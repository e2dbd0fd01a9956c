package evaluator

import (
	"testing"

	"github.com/focus-lang/focus/internal/modules"
	"github.com/focus-lang/focus/internal/typesystem"
)

func TestStackFrames(t *testing.T) {
	s := NewStack()
	root := s.Push(Integer{Value: 1})

	s.PushFrame()
	a := s.Push(Integer{Value: 2})
	s.Push(Integer{Value: 3})
	if s.Len() != 3 || s.Depth() != 1 {
		t.Fatalf("len=%d depth=%d", s.Len(), s.Depth())
	}
	s.PopFrame()

	if s.Len() != 1 || s.Depth() != 0 {
		t.Fatalf("after pop: len=%d depth=%d", s.Len(), s.Depth())
	}
	if _, err := s.Get(a); err == nil {
		t.Errorf("expected an error reading a popped slot")
	}
	v, err := s.Get(root)
	if err != nil || v != (Integer{Value: 1}) {
		t.Errorf("root slot = %v, %v", v, err)
	}

	// popping past the root is a no-op
	s.PopFrame()
	if s.Len() != 1 {
		t.Errorf("root frame was popped")
	}
}

func TestStackBoxWritesThrough(t *testing.T) {
	s := NewStack()
	sp := s.Push(Integer{Value: 1})

	cell, err := s.Box(sp)
	if err != nil {
		t.Fatal(err)
	}
	again, err := s.Box(sp)
	if err != nil {
		t.Fatal(err)
	}
	if cell != again {
		t.Errorf("boxing twice must return the same cell")
	}

	if err := s.Set(sp, Integer{Value: 7}); err != nil {
		t.Fatal(err)
	}
	if cell.Value != (Integer{Value: 7}) {
		t.Errorf("write did not go through the ref: %v", cell.Value)
	}

	// a frame holding the same cell survives the original slot
	s.PushFrame()
	inner := s.Push(cell)
	if err := s.Set(inner, Integer{Value: 9}); err != nil {
		t.Fatal(err)
	}
	s.PopFrame()
	v, _ := s.Get(sp)
	if Deref(v) != (Integer{Value: 9}) {
		t.Errorf("expected 9 through the shared cell, got %v", Deref(v))
	}
}

func TestContextChain(t *testing.T) {
	root := NewContext(modules.New(modules.DefaultModuleName))
	root.AddLocal("x", Local{Type: typesystem.IntID, Addr: 0})

	child := NewEnclosedContext(root)
	child.AddLocal("y", Local{Type: typesystem.BoolID, Addr: NoAddr})

	if !root.IsRoot() || child.IsRoot() {
		t.Errorf("unexpected root flags")
	}
	if child.IsLocal("x") || !child.IsInParent("x") {
		t.Errorf("x should be inherited, not local")
	}
	if !child.IsLocal("y") || child.IsInParent("y") {
		t.Errorf("y should be local")
	}
	l, owner, ok := child.FindLocal("x")
	if !ok || owner != root || l.Type != typesystem.IntID {
		t.Errorf("FindLocal(x) = %v, %v, %v", l, owner, ok)
	}
	if y, _ := child.GetLocal("y"); y.Initialized() {
		t.Errorf("y should be uninitialized")
	}
	if _, ok := root.GetLocal("y"); ok {
		t.Errorf("y leaked into the parent")
	}
	if !child.Encloses(root) || !child.Encloses(child) || root.Encloses(child) {
		t.Errorf("unexpected Encloses results")
	}
	if child.Parent() != root {
		t.Errorf("child.Parent() is not root")
	}
	if child.Module() != root.Module() {
		t.Errorf("child scopes share the module")
	}
}

func TestValuesEqual(t *testing.T) {
	f := &Function{}
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"ints", Integer{Value: 1}, Integer{Value: 1}, true},
		{"floats", Float{Value: 1.5}, Float{Value: 2}, false},
		{"ref", &Ref{Value: Char{Value: 'a'}}, Char{Value: 'a'}, true},
		{"objects", &Object{Values: []Value{Integer{Value: 1}}}, &Object{Values: []Value{Integer{Value: 1}}}, true},
		{"object lengths", &Object{}, &Object{Values: []Value{Unit{}}}, false},
		{"same function", f, f, true},
		{"distinct functions", &Function{}, &Function{}, false},
		{"unit", Unit{}, Unit{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValuesEqual = %v, want %v", got, tt.want)
			}
		})
	}
}
