package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/interp"
	"github.com/sharpts/sharpts/internal/pipeline"
)

var (
	evalExpr    string
	skipCheck   bool
	runCompiled bool
	dumpAST     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a TypeScript file or expression",
	Long: `Execute a TypeScript program from a file or inline snippet.

Examples:
  # Run a script file
  sharpts run script.ts

  # Evaluate an inline snippet
  sharpts run -e "console.log(1 + 2)"

  # Run on the bytecode VM instead of the tree-walking interpreter
  sharpts run --compiled script.ts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&skipCheck, "no-check", false, "skip type checking before execution")
	runCmd.Flags().BoolVar(&runCompiled, "compiled", false, "run on the bytecode VM instead of the tree-walking interpreter")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before running")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	file, err := pipeline.Parse(input, filename)
	if err != nil {
		renderErr(err)
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		fmt.Println(file.String())
	}

	if !skipCheck {
		if _, err := pipeline.Check(file); err != nil {
			renderErr(err)
			return fmt.Errorf("type checking failed")
		}
	}

	it := pipeline.NewInterpreter(os.Stdout)
	var result interp.Value
	if runCompiled {
		result, err = pipeline.RunCompiled(it, file)
	} else {
		result, err = pipeline.RunTree(it, file)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("execution failed")
	}
	_ = result
	return nil
}

// readSource resolves the run command's input source: an inline -e
// snippet, a single file argument, or stdin when neither is given.
func readSource(expr string, args []string) (input, filename string, err error) {
	if expr != "" {
		return expr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), "<stdin>", nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
