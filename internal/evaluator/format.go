package evaluator

import (
	"strings"

	"github.com/focus-lang/focus/internal/typesystem"
)

// Format renders v the way the REPL prints results. Struct instances show
// their type and field names, which Inspect cannot know.
func (e *Evaluator) Format(v Value) string {
	var b strings.Builder
	e.format(&b, Deref(v))
	return b.String()
}

func (e *Evaluator) format(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case *Object:
		t, err := e.Types.Resolve(v.TypeID)
		if err != nil {
			b.WriteString(v.Inspect())
			return
		}
		if fields, ok := t.AsStruct(); ok {
			b.WriteString(t.Name + " {")
			for i, f := range fields {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(f.Name + ": ")
				if i < len(v.Values) {
					e.format(b, Deref(v.Values[i]))
				}
			}
			b.WriteString("}")
			return
		}
		b.WriteString("[")
		for i, el := range v.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			e.format(b, Deref(el))
		}
		b.WriteString("]")
	case *Function:
		b.WriteString("<function")
		if v.Name != "" {
			b.WriteString(" " + v.Name)
		}
		if v.TypeID != typesystem.NoType {
			b.WriteString(" : " + e.typeName(v.TypeID))
		}
		b.WriteString(">")
	case nil:
		b.WriteString("()")
	default:
		b.WriteString(v.Inspect())
	}
}

// TypeName returns the display name of a type id.
func (e *Evaluator) TypeName(id typesystem.TypeID) string {
	return e.typeName(id)
}
