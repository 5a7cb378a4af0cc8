// Package repl drives an interactive read-eval-print loop over the
// checker/interpreter/emitter pipeline, with history and line-editing from
// peterh/liner.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/pipeline"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config holds the toggles a REPL session's `:` commands flip at runtime.
type Config struct {
	// Compiled runs every line on the bytecode VM instead of the
	// tree-walking interpreter.
	Compiled bool
	// ShowAST prints the parsed statement tree before evaluating it.
	ShowAST bool
	// SkipCheck evaluates a line even when type-checking it failed,
	// printing the diagnostic as a warning instead of refusing to run.
	SkipCheck bool
}

// REPL is one interactive session: a persistent interpreter (so `let`/
// `const`/function declarations from earlier lines stay in scope) plus the
// line-editing/history/command state around it.
type REPL struct {
	config    *Config
	it        *interp.Interpreter
	history   []string
	version   string
	lineCount int
}

// New builds a REPL with a fresh interpreter (builtins already registered
// via internal/pipeline.NewInterpreter) writing program output to out.
func New(version string, out io.Writer) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{
		config:  &Config{},
		it:      pipeline.NewInterpreter(out),
		history: []string{},
		version: version,
	}
}

func (r *REPL) getPrompt() string {
	if r.config.Compiled {
		return "ts[vm]> "
	}
	return "ts> "
}

// historyFilePath is where Start persists line history between sessions.
func historyFilePath() string {
	return filepath.Join(os.TempDir(), ".sharpts_history")
}

// Start runs the loop until the user quits or in reaches EOF. in is kept
// for parity with a plain io.Reader-driven REPL even though liner reads
// directly from the controlling terminal.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	if f, err := os.Open(historyFilePath()); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("SharpTS"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return c
	})

	for {
		input, err := line.Prompt(r.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if needsContinuation(input) {
			var lines []string
			lines = append(lines, input)
			for needsContinuation(strings.Join(lines, "\n")) {
				cont, err := line.Prompt("... ")
				if err != nil {
					break
				}
				lines = append(lines, cont)
			}
			input = strings.Join(lines, "\n")
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if shouldQuit(input) {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.HandleCommand(input, out)
			continue
		}

		r.ProcessStatement(input, out)
	}

	if f, err := os.Create(historyFilePath()); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func shouldQuit(input string) bool {
	cmd := strings.Fields(input)[0]
	return cmd == ":quit" || cmd == ":q" || cmd == ":exit"
}

// needsContinuation reports whether input has more open braces/brackets/
// parens than closed ones, the REPL's heuristic for "the statement isn't
// finished yet" since TS has no single terminator token a line can end on.
func needsContinuation(input string) bool {
	depth := 0
	for _, r := range input {
		switch r {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth > 0
}
