package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/focus-lang/focus/internal/config"
	"github.com/focus-lang/focus/internal/evaluator"
	focus "github.com/focus-lang/focus/pkg/embed"
)

const appName = "focus"

// Exit codes
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(exitRuntime)
		}
	}()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli holds the streams and settings of one invocation.
type cli struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logger   *log.Logger
	settings *config.Settings
}

// runOptions are the flags shared by run, eval and repl.
type runOptions struct {
	output string
	trace  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, appName+": ", 0)
	settings, err := config.LoadSettings(config.SettingsPath())
	if err != nil {
		logger.Print(err)
		return exitUsage
	}
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, logger: logger, settings: settings}

	if len(args) == 0 {
		if c.interactive() {
			return c.cmdRepl(nil)
		}
		return c.cmdStdin()
	}

	switch cmd := args[0]; cmd {
	case "run":
		return c.cmdRun(args[1:])
	case "eval", "-e":
		return c.cmdEval(args[1:])
	case "repl":
		return c.cmdRepl(args[1:])
	case "version", "--version":
		fmt.Fprintf(stdout, "%s %s\n", appName, config.Version)
		return exitOK
	case "help", "-h", "--help":
		c.usage(stdout)
		return exitOK
	default:
		if strings.HasSuffix(cmd, config.SourceFileExt) {
			return c.cmdRun(args)
		}
		logger.Printf("unknown command %q", cmd)
		c.usage(stderr)
		return exitUsage
	}
}

func (c *cli) usage(w io.Writer) {
	fmt.Fprintf(w, `focus %s

Usage:
  %s run [--output text|json|yaml] [--trace] <file%s>
  %s eval [--output text|json|yaml] [--trace] <source>
  %s -e <source>
  %s repl [--trace]
  %s version

With no arguments, starts the REPL on a terminal and reads a script from
stdin otherwise.
`, config.Version, appName, config.SourceFileExt, appName, appName, appName, appName)
}

func (c *cli) flags(name string, opts *runOptions) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&opts.output, "output", c.settings.Output, "result format: text, json or yaml")
	fs.BoolVar(&opts.trace, "trace", c.settings.Trace, "log every statement and call")
	return fs
}

func (c *cli) parseFlags(name string, args []string) (runOptions, []string, bool) {
	var opts runOptions
	fs := c.flags(name, &opts)
	if err := fs.Parse(args); err != nil {
		return opts, nil, false
	}
	switch opts.output {
	case config.OutputText, config.OutputJSON, config.OutputYAML:
	default:
		c.logger.Printf("unknown output format %q", opts.output)
		return opts, nil, false
	}
	return opts, fs.Args(), true
}

func (c *cli) cmdRun(args []string) int {
	opts, rest, ok := c.parseFlags("run", args)
	if !ok {
		return exitUsage
	}
	if len(rest) != 1 {
		fmt.Fprintf(c.stderr, "usage: %s run [flags] <file%s>\n", appName, config.SourceFileExt)
		return exitUsage
	}
	src, err := os.ReadFile(rest[0])
	if err != nil {
		c.logger.Printf("cannot read %s: %v", rest[0], err)
		return exitRuntime
	}
	return c.execute(string(src), rest[0], opts)
}

func (c *cli) cmdEval(args []string) int {
	opts, rest, ok := c.parseFlags("eval", args)
	if !ok {
		return exitUsage
	}
	if len(rest) == 0 {
		fmt.Fprintf(c.stderr, "usage: %s eval [flags] <source>\n", appName)
		return exitUsage
	}
	return c.execute(strings.Join(rest, " "), "", opts)
}

func (c *cli) cmdStdin() int {
	src, err := io.ReadAll(c.stdin)
	if err != nil {
		c.logger.Printf("reading stdin: %v", err)
		return exitRuntime
	}
	return c.execute(string(src), "", runOptions{output: c.settings.Output, trace: c.settings.Trace})
}

// interactive reports whether stdin is a terminal.
func (c *cli) interactive() bool {
	f, ok := c.stdin.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *cli) newInterpreter(opts runOptions) *focus.Interpreter {
	var logger *log.Logger
	if opts.trace {
		logger = c.logger
	}
	return focus.NewWithOptions(focus.Options{Logger: logger, Trace: opts.trace})
}

// execute runs one source unit and prints its last value. Runtime errors
// come before parse errors since statements ahead of a syntax error still
// run.
func (c *cli) execute(source, path string, opts runOptions) int {
	interp := c.newInterpreter(opts)
	ctx := interp.Run(source, path)
	if opts.trace {
		c.logger.Printf("run=%s file=%q runtime_errors=%d parse_errors=%d",
			ctx.RunID, path, len(ctx.RuntimeErrors), len(ctx.Errors))
	}

	for _, err := range ctx.RuntimeErrors {
		c.logger.Print(err)
	}
	for _, err := range ctx.Errors {
		c.logger.Print(err)
	}
	if len(ctx.Errors) > 0 {
		return exitUsage
	}
	if len(ctx.RuntimeErrors) > 0 {
		return exitRuntime
	}

	v, _ := ctx.Result.(evaluator.Value)
	if err := printValue(c.stdout, interp, v, opts.output); err != nil {
		c.logger.Print(err)
		return exitRuntime
	}
	return exitOK
}
