// Package pipeline wires the lexer, parser, checker, interpreter, and
// bytecode emitter into the handful of end-to-end operations cmd/sharpts
// and internal/repl both need, so neither has to duplicate the
// lex-parse-check-run sequence.
package pipeline

import (
	"fmt"
	"io"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/builtins"
	"github.com/sharpts/sharpts/internal/checker"
	"github.com/sharpts/sharpts/internal/emitter"
	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/lexer"
	"github.com/sharpts/sharpts/internal/parser"
)

// ParseErrors wraps every error a Parse call accumulated so a caller can
// render them all rather than just the first, matching the parser's own
// best-effort collection policy (it keeps parsing past a bad statement).
type ParseErrors struct {
	Errors []error
}

func (e *ParseErrors) Error() string {
	if len(e.Errors) == 0 {
		return "parse failed"
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Parse lexes and parses src into a file AST. filename is attached to every
// position recorded on the tree and echoed back in diagnostics.
func Parse(src, filename string) (*ast.File, error) {
	l := lexer.New(src, filename)
	p := parser.New(l, filename)
	file := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return file, &ParseErrors{Errors: errs}
	}
	return file, nil
}

// Check type-checks file and returns the inferred side table, or the
// first diagnostic the checker raised.
func Check(file *ast.File) (*checker.Result, error) {
	return checker.Check(file)
}

// NewInterpreter builds a tree-walking interpreter with every builtin
// registered, writing program output to out.
func NewInterpreter(out io.Writer) *interp.Interpreter {
	it := interp.New(out)
	builtins.Register(it)
	return it
}

// RunTree runs file directly with the tree-walking interpreter, the path
// every generator/async/class-bearing program takes.
func RunTree(it *interp.Interpreter, file *ast.File) (interp.Value, error) {
	return it.Run(file)
}

// RunCompiled compiles file to bytecode and runs it on a fresh VM bound to
// it, so builtins that call back into user code (Array callbacks, Promise
// executors) can invoke a compiled closure the same way they invoke a
// tree-walked one.
func RunCompiled(it *interp.Interpreter, file *ast.File) (interp.Value, error) {
	prog, err := emitter.Compile(file)
	if err != nil {
		return nil, err
	}
	vm := emitter.NewVM(it)
	return vm.Run(prog)
}

// Result bundles everything a single run of the pipeline produced, for
// callers (the REPL, `sharpts check`) that want the intermediate values
// rather than just a pass/fail.
type Result struct {
	File    *ast.File
	Checked *checker.Result
	Value   interp.Value
}

// Options controls how Run drives the pipeline past parsing.
type Options struct {
	// SkipCheck runs the program without type-checking it first, the
	// REPL's default so a single bad line doesn't refuse evaluation.
	SkipCheck bool
	// Compiled runs the program through the bytecode emitter/VM instead
	// of the tree-walking interpreter.
	Compiled bool
}

// Run lexes, parses, optionally checks, and then executes src against it,
// returning whatever intermediate results were produced even on failure
// (File is set once parsing succeeds, Checked once checking succeeds).
func Run(it *interp.Interpreter, src, filename string, opts Options) (*Result, error) {
	file, err := Parse(src, filename)
	if err != nil {
		return nil, err
	}
	res := &Result{File: file}

	if !opts.SkipCheck {
		checked, err := Check(file)
		if err != nil {
			return res, err
		}
		res.Checked = checked
	}

	var value interp.Value
	if opts.Compiled {
		value, err = RunCompiled(it, file)
	} else {
		value, err = RunTree(it, file)
	}
	if err != nil {
		return res, err
	}
	res.Value = value
	return res, nil
}
