package evaluator

import (
	"github.com/focus-lang/focus/internal/modules"
	"github.com/focus-lang/focus/internal/typesystem"
)

// NoAddr marks a local that is declared but not yet initialized.
const NoAddr = -1

// Local is a name bound in a Context: its static type and its stack slot.
type Local struct {
	Type typesystem.TypeID
	Addr int
}

func (l Local) Initialized() bool { return l.Addr != NoAddr }

func NewContext(module *modules.Module) *Context {
	return &Context{locals: make(map[string]Local), module: module}
}

func NewEnclosedContext(parent *Context) *Context {
	ctx := NewContext(parent.module)
	ctx.parent = parent
	return ctx
}

// Context is one lexical scope. Lookups walk the parent chain; the root
// context holds the top-level names of the module.
type Context struct {
	locals map[string]Local
	parent *Context
	module *modules.Module
	// expired is set when the call owning this scope returns. Its slots
	// have been popped, so its locals must not be read again.
	expired bool
}

func (c *Context) AddLocal(name string, l Local) {
	c.locals[name] = l
}

// GetLocal looks name up in this scope only.
func (c *Context) GetLocal(name string) (Local, bool) {
	l, ok := c.locals[name]
	return l, ok
}

// FindLocal looks name up along the parent chain and returns the scope
// that owns it.
func (c *Context) FindLocal(name string) (Local, *Context, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if l, ok := cur.locals[name]; ok {
			return l, cur, true
		}
	}
	return Local{}, nil, false
}

// IsLocal reports whether name is bound in this exact scope.
func (c *Context) IsLocal(name string) bool {
	_, ok := c.locals[name]
	return ok
}

// IsInParent reports whether name is inherited from an enclosing scope.
func (c *Context) IsInParent(name string) bool {
	if c.parent == nil {
		return false
	}
	_, _, ok := c.parent.FindLocal(name)
	return ok
}

func (c *Context) Parent() *Context { return c.parent }

// Encloses reports whether scope is c or one of its ancestors.
func (c *Context) Encloses(scope *Context) bool {
	for cur := c; cur != nil; cur = cur.Parent() {
		if cur == scope {
			return true
		}
	}
	return false
}

func (c *Context) IsRoot() bool { return c.parent == nil }

func (c *Context) Module() *modules.Module { return c.module }

func (c *Context) expire() { c.expired = true }
