package parser

import (
	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/pipeline"
	"github.com/focus-lang/focus/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		err := diagnostics.NewError(diagnostics.ErrP004, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		ctx.AstRoot = &ast.Program{File: ctx.FilePath}
		return ctx
	}

	parser := New(ctx.Tokens, ctx)
	ctx.AstRoot = parser.ParseProgram()
	ctx.AstRoot.File = ctx.FilePath

	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
