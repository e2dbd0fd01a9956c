package typesystem

import "fmt"

// UnresolvedTypeError indicates a type expression names an unknown type.
type UnresolvedTypeError struct {
	Name string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type %s", e.Name)
}

func NewUnresolvedTypeError(name string) *UnresolvedTypeError {
	return &UnresolvedTypeError{Name: name}
}

// DuplicateTypeError indicates a declaration reuses an existing type name.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type %s is already declared", e.Name)
}

// DuplicateFieldError indicates a struct declaration repeats a field name.
type DuplicateFieldError struct {
	Type  string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %s is declared twice in %s", e.Field, e.Type)
}
