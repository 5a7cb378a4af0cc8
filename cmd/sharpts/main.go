// Command sharpts is the CLI entry point: type-check, run, and REPL over
// TypeScript source using the checker/interpreter/emitter pipeline.
package main

import (
	"os"

	"github.com/sharpts/sharpts/cmd/sharpts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
