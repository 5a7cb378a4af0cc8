package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/sharpts/sharpts/internal/ast"
	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/pipeline"
)

// replCommands drives both the help text and the liner completer, kept as
// one list so the two can't drift apart.
var replCommands = []string{
	":help", ":h", ":quit", ":q", ":exit", ":type", ":t", ":ast",
	":compiled", ":check", ":history", ":clear", ":reset",
}

// HandleCommand processes a `:`-prefixed REPL command.
func (r *REPL) HandleCommand(cmd string, out io.Writer) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ":help", ":h":
		r.printHelp(out)

	case ":type", ":t":
		if len(parts) < 2 {
			fmt.Fprintln(out, "Usage: :type <expression>")
			return
		}
		r.showType(strings.Join(parts[1:], " "), out)

	case ":ast":
		r.config.ShowAST = !r.config.ShowAST
		fmt.Fprintf(out, "AST dumping %s\n", toggleStatus(r.config.ShowAST))

	case ":compiled":
		r.config.Compiled = !r.config.Compiled
		fmt.Fprintf(out, "Bytecode VM evaluation %s\n", toggleStatus(r.config.Compiled))

	case ":check":
		r.config.SkipCheck = !r.config.SkipCheck
		status := "enabled"
		if r.config.SkipCheck {
			status = "disabled"
		}
		fmt.Fprintf(out, "Type checking %s\n", yellow(status))

	case ":history":
		r.showHistory(out)

	case ":clear":
		fmt.Fprint(out, "\033[H\033[2J")

	case ":reset":
		r.it = pipeline.NewInterpreter(r.it.Out())
		fmt.Fprintln(out, yellow("Environment reset"))

	default:
		fmt.Fprintf(out, "Unknown command: %s (try :help)\n", parts[0])
	}
}

func toggleStatus(on bool) string {
	if on {
		return yellow("enabled")
	}
	return yellow("disabled")
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("REPL Commands:"))
	fmt.Fprintln(out, "  :help, :h          Show this help")
	fmt.Fprintln(out, "  :quit, :q, :exit   Exit the REPL")
	fmt.Fprintln(out, "  :type <expr>, :t   Show the inferred type of an expression")
	fmt.Fprintln(out, "  :ast               Toggle printing the parsed statement tree")
	fmt.Fprintln(out, "  :compiled          Toggle running lines on the bytecode VM")
	fmt.Fprintln(out, "  :check             Toggle type-checking lines before running them")
	fmt.Fprintln(out, "  :history           Show command history")
	fmt.Fprintln(out, "  :clear             Clear the screen")
	fmt.Fprintln(out, "  :reset             Reset the environment")
	fmt.Fprintln(out)
	fmt.Fprintln(out, bold("Examples:"))
	fmt.Fprintln(out, "  let x = 1 + 2; x * 3")
	fmt.Fprintln(out, "  :type [1, 2, 3].map(n => n * 2)")
}

func (r *REPL) showHistory(out io.Writer) {
	for i, h := range r.history {
		fmt.Fprintf(out, "%3d  %s\n", i+1, h)
	}
}

// showType parses input as a standalone expression statement, checks it,
// and prints the type the checker inferred for its top-level expression.
func (r *REPL) showType(input string, out io.Writer) {
	file, err := pipeline.Parse(input+";", "<repl>")
	if err != nil {
		r.printErrors(err, out)
		return
	}
	checked, err := pipeline.Check(file)
	if err != nil {
		r.printErrors(err, out)
		return
	}
	if len(file.Statements) == 0 {
		fmt.Fprintln(out, yellow("empty expression"))
		return
	}
	last := file.Statements[len(file.Statements)-1]
	exprStmt, ok := last.(*ast.ExprStmt)
	if !ok {
		fmt.Fprintln(out, yellow("not an expression"))
		return
	}
	ty, ok := checked.Types.Get(exprStmt.X)
	if !ok {
		fmt.Fprintln(out, yellow("type not recorded (unreached branch?)"))
		return
	}
	fmt.Fprintf(out, "%s: %s\n", input, cyan(ty.String()))
}

// ProcessStatement runs one REPL line through the pipeline: parse, dump
// the AST if requested, type-check (warning rather than refusing to run
// on failure, since SkipCheck defaults off but a REPL user iterating on a
// half-written expression shouldn't be blocked), then evaluate.
func (r *REPL) ProcessStatement(input string, out io.Writer) {
	file, err := pipeline.Parse(input, "<repl>")
	if err != nil {
		r.printErrors(err, out)
		return
	}

	if r.config.ShowAST {
		fmt.Fprintln(out, dim(file.String()))
	}

	if !r.config.SkipCheck {
		if _, err := pipeline.Check(file); err != nil {
			fmt.Fprintf(out, "%s: ", yellow("type warning"))
			r.printErrors(err, out)
		}
	}

	var result interp.Value
	if r.config.Compiled {
		result, err = pipeline.RunCompiled(r.it, file)
	} else {
		result, err = pipeline.RunTree(r.it, file)
	}
	if err != nil {
		r.printErrors(err, out)
		return
	}
	if result == nil {
		return
	}
	if _, isUndef := result.(interp.UndefinedValue); isUndef {
		return
	}
	fmt.Fprintln(out, result.String())
}

// printErrors renders err the same way cmd/sharpts does: a structured
// *diagnostics.Report when one is attached, the aggregated parse-error
// list from pipeline.ParseErrors, or the plain error text otherwise.
func (r *REPL) printErrors(err error, out io.Writer) {
	if perrs, ok := err.(*pipeline.ParseErrors); ok {
		for _, e := range perrs.Errors {
			fmt.Fprintf(out, "  %s %v\n", red("error:"), e)
		}
		return
	}
	if rep, ok := diagnostics.AsReport(err); ok {
		diagnostics.NewRenderer(out, nil).Render(rep)
		return
	}
	fmt.Fprintf(out, "%s %v\n", red("error:"), err)
}
