package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start a REPL session over the checker/interpreter pipeline, with
line editing and history.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		r := repl.New(Version, os.Stdout)
		r.Start(os.Stdin, os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
