package pipeline

import (
	"github.com/google/uuid"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/token"
)

// PipelineContext carries one source unit through the processing stages.
type PipelineContext struct {
	RunID      uuid.UUID
	SourceCode string
	FilePath   string

	Tokens  []token.Token
	AstRoot *ast.Program

	// Errors holds parse diagnostics. Runtime failures travel separately in
	// RuntimeErrors so callers can tell the two channels apart.
	Errors        []*diagnostics.DiagnosticError
	RuntimeErrors []error

	// Result is the value of the last evaluated statement.
	Result interface{}
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// NewContext starts a context for source read from path ("" for inline code).
func NewContext(source, path string) *PipelineContext {
	return &PipelineContext{
		RunID:      uuid.New(),
		SourceCode: source,
		FilePath:   path,
	}
}

// Err returns the first error in execution order: runtime errors raised by
// statements parsed before a syntax error come first.
func (c *PipelineContext) Err() error {
	if len(c.RuntimeErrors) > 0 {
		return c.RuntimeErrors[0]
	}
	if len(c.Errors) > 0 {
		return c.Errors[0]
	}
	return nil
}
