package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/pipeline"
	"github.com/sharpts/sharpts/internal/repl"
)

var watchCompiled bool

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run a file every time it changes on disk",
	Long: `Watch a TypeScript file and re-check/re-run it on every save,
using fsnotify to detect changes in its directory.

Examples:
  sharpts watch script.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchCompiled, "compiled", false, "run on the bytecode VM instead of the tree-walking interpreter")
}

func runWatch(_ *cobra.Command, args []string) error {
	filename := args[0]

	runOnce := func() {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		file, err := pipeline.Parse(string(content), filename)
		if err != nil {
			renderErr(err)
			return
		}
		if _, err := pipeline.Check(file); err != nil {
			renderErr(err)
			return
		}

		it := pipeline.NewInterpreter(os.Stdout)
		if watchCompiled {
			_, err = pipeline.RunCompiled(it, file)
		} else {
			_, err = pipeline.RunTree(it, file)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	return repl.Watch(filename, os.Stdout, runOnce)
}
