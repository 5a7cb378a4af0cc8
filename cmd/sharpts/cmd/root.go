package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/config"
)

// Version information, overwritten by -ldflags at release build time.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	cfgPath          string
	forceColorFlag   bool
	forceNoColorFlag bool
	cfg              *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sharpts",
	Short: "A TypeScript type checker and interpreter",
	Long: `sharpts type-checks and runs TypeScript programs with a structural
and nominal checker, a tree-walking interpreter, and an optional bytecode
emitter/VM for the subset of the language that lowers cleanly.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "directory to search for sharpts.toml (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&forceColorFlag, "color", false, "force colored diagnostic output on")
	rootCmd.PersistentFlags().BoolVar(&forceNoColorFlag, "no-color", false, "force colored diagnostic output off")
}

// colorOverride resolves the --color/--no-color flags into the tri-state
// NewRenderer expects: nil means auto-detect from the output stream.
func colorOverride() *bool {
	switch {
	case forceColorFlag:
		v := true
		return &v
	case forceNoColorFlag:
		v := false
		return &v
	case cfg != nil && cfg.NoColor:
		v := false
		return &v
	default:
		return nil
	}
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
