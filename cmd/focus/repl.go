package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/config"
	"github.com/focus-lang/focus/internal/evaluator"
	focus "github.com/focus-lang/focus/pkg/embed"
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func (c *cli) cmdRepl(args []string) int {
	opts, rest, ok := c.parseFlags("repl", args)
	if !ok || len(rest) > 0 {
		return exitUsage
	}

	session := uuid.New()
	if opts.trace {
		c.logger.Printf("session=%s repl start", session)
	}
	fmt.Fprintf(c.stdout, "focus %s REPL\nEnd input with ';' or an empty line. Ctrl+C cancels input, Ctrl+D exits.\n", config.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	history := c.settings.HistoryFile
	if f, err := os.Open(history); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(history); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	interp := c.newInterpreter(opts)
	color := c.useColor()
	for {
		code, ok := readChunk(ln, c.settings.Prompt, c.settings.ContinuationPrompt)
		if !ok {
			fmt.Fprintln(c.stdout)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		c.evalChunk(interp, code, color)
	}
	if opts.trace {
		c.logger.Printf("session=%s repl end", session)
	}
	return exitOK
}

// evalChunk runs one REPL input and prints the value or the error of each
// statement as it runs, then any syntax error.
func (c *cli) evalChunk(interp *focus.Interpreter, code string, color bool) {
	eval := interp.Evaluator()
	eval.OnStatement = func(_ ast.Statement, v evaluator.Value, err error) {
		if err == nil {
			err = printValue(c.stdout, interp, v, config.OutputText)
		}
		if err != nil {
			c.printError(err, color)
		}
	}
	defer func() { eval.OnStatement = nil }()

	ctx := interp.Run(code, "")
	for _, err := range ctx.Errors {
		c.printError(err, color)
	}
}

func (c *cli) printError(err error, color bool) {
	msg := err.Error()
	if color {
		msg = red(msg)
	}
	fmt.Fprintln(c.stderr, msg)
}

// useColor follows the settings file, or else whether stdout is a terminal.
func (c *cli) useColor() bool {
	if c.settings.Color != nil {
		return *c.settings.Color
	}
	f, ok := c.stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// prompter is the part of liner.State the REPL reads with.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readChunk reads lines until one ends with ';' or an empty line follows
// some input. Ctrl+C drops the pending input. It reports false at end of
// input.
func readChunk(p prompter, prompt, cont string) (string, bool) {
	var chunk chunkBuffer
	for {
		current := prompt
		if !chunk.empty() {
			current = cont
		}
		line, err := p.Prompt(current)
		if errors.Is(err, liner.ErrPromptAborted) {
			chunk.reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			if chunk.empty() {
				return "", false
			}
			return chunk.String(), true
		}
		if err != nil {
			return "", false
		}
		if code, done := chunk.add(line); done {
			return code, true
		}
	}
}

// chunkBuffer collects REPL lines into one source unit.
type chunkBuffer struct {
	lines []string
}

func (b *chunkBuffer) empty() bool { return len(b.lines) == 0 }

func (b *chunkBuffer) reset() { b.lines = b.lines[:0] }

func (b *chunkBuffer) String() string { return strings.Join(b.lines, "\n") }

// add appends a line and reports whether the chunk is complete.
func (b *chunkBuffer) add(line string) (string, bool) {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" {
		if b.empty() {
			return "", false
		}
		code := b.String()
		b.reset()
		return code, true
	}
	if strings.HasSuffix(trimmed, ";") {
		b.lines = append(b.lines, strings.TrimSuffix(trimmed, ";"))
		code := b.String()
		b.reset()
		return code, true
	}
	b.lines = append(b.lines, line)
	return "", false
}
