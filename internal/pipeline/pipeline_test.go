package pipeline

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/token"
)

type recorder struct {
	name  string
	calls *[]string
}

func (r recorder) Process(ctx *PipelineContext) *PipelineContext {
	*r.calls = append(*r.calls, r.name)
	if r.name == "failing" {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, token.Token{Line: 1}, "boom"))
	}
	return ctx
}

func TestEveryStageRuns(t *testing.T) {
	var calls []string
	p := New(recorder{"failing", &calls}, recorder{"second", &calls}, recorder{"third", &calls})
	ctx := p.Run(NewContext("x", "main.focus"))

	if len(calls) != 3 || calls[2] != "third" {
		t.Errorf("stages after an error must still run, got %v", calls)
	}
	if len(ctx.Errors) != 1 {
		t.Errorf("expected one error, got %v", ctx.Errors)
	}
}

func TestNewContext(t *testing.T) {
	a := NewContext("1", "a.focus")
	b := NewContext("1", "")
	if a.RunID == uuid.Nil || a.RunID == b.RunID {
		t.Errorf("each context needs its own run id: %s %s", a.RunID, b.RunID)
	}
	if a.SourceCode != "1" || a.FilePath != "a.focus" || b.FilePath != "" {
		t.Errorf("unexpected context %+v", a)
	}
}

func TestErrOrder(t *testing.T) {
	ctx := NewContext("", "")
	if ctx.Err() != nil {
		t.Fatalf("a fresh context has no error")
	}

	parseErr := diagnostics.NewError(diagnostics.ErrP001, token.Token{Line: 3}, "bad")
	ctx.Errors = append(ctx.Errors, parseErr)
	if !errors.Is(ctx.Err(), parseErr) {
		t.Errorf("Err() = %v, want the parse error", ctx.Err())
	}

	runtimeErr := errors.New("runtime")
	ctx.RuntimeErrors = append(ctx.RuntimeErrors, runtimeErr)
	if ctx.Err() != runtimeErr {
		t.Errorf("runtime errors come first, got %v", ctx.Err())
	}
}
