package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/sharpts/sharpts/internal/interp"
)

// registerConsole wires `console.log/info/warn/error/debug` onto i.Out(),
// coloring warn/error the way internal/diagnostics' renderer colors
// severities — both gated on isatty so piped/redirected output stays
// plain.
func registerConsole(i *interp.Interpreter, g *interp.Environment) {
	out := i.Out()
	colorEnabled := false
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		colorEnabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	plain := func(w io.Writer, args []interp.Value) {
		fmt.Fprintln(w, joinArgs(args))
	}
	colored := func(w io.Writer, args []interp.Value, c *color.Color) {
		c.Fprintln(w, joinArgs(args))
	}

	console := interp.NewObject()
	console.Set("log", interp.NewNativeFunction("log", func(_ *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		plain(out, args)
		return interp.Undefined
	}))
	console.Set("info", interp.NewNativeFunction("info", func(_ *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		plain(out, args)
		return interp.Undefined
	}))
	console.Set("debug", interp.NewNativeFunction("debug", func(_ *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		plain(out, args)
		return interp.Undefined
	}))
	console.Set("warn", interp.NewNativeFunction("warn", func(_ *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if colorEnabled {
			colored(out, args, color.New(color.FgYellow))
		} else {
			plain(out, args)
		}
		return interp.Undefined
	}))
	console.Set("error", interp.NewNativeFunction("error", func(_ *interp.Interpreter, _ interp.Value, args []interp.Value) interp.Value {
		if colorEnabled {
			colored(out, args, color.New(color.FgRed))
		} else {
			plain(out, args)
		}
		return interp.Undefined
	}))
	g.Declare("console", console, true)
}

func joinArgs(args []interp.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
