package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/focus-lang/focus/internal/config"
	"github.com/focus-lang/focus/internal/evaluator"
	focus "github.com/focus-lang/focus/pkg/embed"
)

// printValue writes a result in the chosen format. Unit prints nothing.
func printValue(w io.Writer, interp *focus.Interpreter, v evaluator.Value, format string) error {
	if v == nil {
		return nil
	}
	if _, ok := evaluator.Deref(v).(evaluator.Unit); ok {
		return nil
	}
	if format == config.OutputText {
		_, err := fmt.Fprintln(w, interp.Format(v))
		return err
	}

	host, err := interp.Marshaller().ToHost(v)
	if err != nil {
		return fmt.Errorf("cannot print result as %s: %w", format, err)
	}
	var out []byte
	switch format {
	case config.OutputJSON:
		out, err = json.MarshalIndent(host, "", "  ")
		out = append(out, '\n')
	case config.OutputYAML:
		out, err = yaml.Marshal(host)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
