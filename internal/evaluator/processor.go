package evaluator

import (
	"path/filepath"

	"github.com/focus-lang/focus/internal/pipeline"
)

// EvaluatorProcessor runs the parsed program. It keeps its evaluator
// between runs, so successive contexts share top-level names and types.
// Statements parsed before a syntax error still run.
type EvaluatorProcessor struct {
	Evaluator *Evaluator
}

func NewProcessor(e *Evaluator) *EvaluatorProcessor {
	if e == nil {
		e = New()
	}
	return &EvaluatorProcessor{Evaluator: e}
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	if ep.Evaluator == nil {
		ep.Evaluator = New()
	}
	eval := ep.Evaluator
	if ctx.FilePath != "" {
		eval.CurrentFile = filepath.Base(ctx.FilePath)
	} else {
		eval.CurrentFile = ""
	}

	result, errs := eval.Run(ctx.AstRoot)
	ctx.RuntimeErrors = append(ctx.RuntimeErrors, errs...)
	ctx.Result = result
	return ctx
}
