package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/diagnostics"
	"github.com/sharpts/sharpts/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a TypeScript file without running it",
	Long: `Parse and type-check a TypeScript file, reporting every parse
error, or the first type-checking diagnostic. Exits non-zero on any error.

Examples:
  sharpts check script.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	file, err := pipeline.Parse(string(content), filename)
	if err != nil {
		renderErr(err)
		return fmt.Errorf("parsing failed")
	}

	if _, err := pipeline.Check(file); err != nil {
		renderErr(err)
		return fmt.Errorf("type checking failed")
	}

	fmt.Printf("%s: no errors\n", filename)
	return nil
}

// renderErr prints err the same structured way regardless of which phase
// raised it: a *diagnostics.Report when one is attached, the full list for
// an aggregated parse failure, or the plain error text otherwise.
func renderErr(err error) {
	renderer := diagnostics.NewRenderer(os.Stderr, colorOverride())
	if perrs, ok := err.(*pipeline.ParseErrors); ok {
		for _, e := range perrs.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return
	}
	if rep, ok := diagnostics.AsReport(err); ok {
		renderer.Render(rep)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
