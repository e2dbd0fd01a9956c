package focus

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/focus-lang/focus/internal/evaluator"
	"github.com/focus-lang/focus/internal/lexer"
	"github.com/focus-lang/focus/internal/parser"
	"github.com/focus-lang/focus/internal/pipeline"
)

// Options configure an Interpreter.
type Options struct {
	// Logger receives one line per failed statement. Nil discards.
	Logger *log.Logger
	// Trace logs every statement and call to Logger.
	Trace bool
}

// Interpreter is an embeddable focus interpreter. Top-level names and types
// persist across calls, so code can be fed in pieces.
type Interpreter struct {
	eval       *evaluator.Evaluator
	marshaller *Marshaller
	pipeline   *pipeline.Pipeline
}

// New creates an interpreter with default options.
func New() *Interpreter {
	return NewWithOptions(Options{})
}

func NewWithOptions(opts Options) *Interpreter {
	eval := evaluator.New()
	eval.Logger = opts.Logger
	eval.Trace = opts.Trace
	return &Interpreter{
		eval:       eval,
		marshaller: NewMarshaller(eval),
		pipeline: pipeline.New(
			&lexer.LexerProcessor{},
			&parser.ParserProcessor{},
			evaluator.NewProcessor(eval),
		),
	}
}

// Evaluator exposes the underlying evaluator.
func (i *Interpreter) Evaluator() *evaluator.Evaluator { return i.eval }

// Run passes source through the whole pipeline and returns the context, so
// callers can inspect parse and runtime errors separately.
func (i *Interpreter) Run(source, path string) *pipeline.PipelineContext {
	return i.pipeline.Run(pipeline.NewContext(source, path))
}

// InterpretString runs code and returns the value of its last statement,
// or the first error.
func (i *Interpreter) InterpretString(code string) (evaluator.Value, error) {
	ctx := i.Run(code, "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, _ := ctx.Result.(evaluator.Value)
	if v == nil {
		v = evaluator.Unit{}
	}
	return v, nil
}

// Eval runs code and converts its result to a Go value.
func (i *Interpreter) Eval(code string) (interface{}, error) {
	v, err := i.InterpretString(code)
	if err != nil {
		return nil, err
	}
	return i.marshaller.ToHost(v)
}

// LoadFile runs a source file.
func (i *Interpreter) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return i.Run(string(content), path).Err()
}

// Set defines a top-level name holding a Go value.
func (i *Interpreter) Set(name string, val interface{}) error {
	v, t, err := i.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	i.eval.Define(name, t, v)
	return nil
}

// Get reads a top-level name as a Go value.
func (i *Interpreter) Get(name string) (interface{}, error) {
	v, _, ok := i.eval.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return i.marshaller.ToHost(v)
}

// Call applies a top-level function to Go arguments.
func (i *Interpreter) Call(name string, args ...interface{}) (interface{}, error) {
	v, _, ok := i.eval.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("function '%s' not found", name)
	}
	fn, ok := v.(*evaluator.Function)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	values := make([]evaluator.Value, len(args))
	for n, arg := range args {
		val, _, err := i.marshaller.ToValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", n+1, err)
		}
		values[n] = val
	}
	result, err := i.eval.Apply(fn, values)
	if err != nil {
		return nil, err
	}
	return i.marshaller.ToHost(result)
}

// Format renders a value the way the REPL prints it.
func (i *Interpreter) Format(v evaluator.Value) string {
	return i.eval.Format(v)
}

// Marshaller returns the converter bound to this interpreter's types.
func (i *Interpreter) Marshaller() *Marshaller { return i.marshaller }

// IsKind reports whether err is a runtime error of the given kind.
func IsKind(err error, kind evaluator.ErrorKind) bool {
	return errors.Is(err, kind)
}
