package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sharpts/sharpts/internal/emitter"
	"github.com/sharpts/sharpts/internal/pipeline"
)

var (
	buildOutDir      string
	buildSourceMap   bool
	buildDisassemble bool
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a TypeScript file to bytecode",
	Long: `Type-check and compile a TypeScript file to bytecode, writing the
disassembled chunk (and, unless disabled, a source map back to the
original file) under --out-dir.

Examples:
  sharpts build script.ts
  sharpts build --out-dir build script.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "output directory (default: from sharpts.toml, else \"dist\")")
	buildCmd.Flags().BoolVar(&buildSourceMap, "source-map", true, "write a .map file alongside the compiled output")
	buildCmd.Flags().BoolVar(&buildDisassemble, "dump-ir", false, "print the disassembled chunk to stdout")
}

func runBuild(_ *cobra.Command, args []string) error {
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

	prog, err := emitter.Compile(file)
	if err != nil {
		renderErr(err)
		return fmt.Errorf("compilation failed")
	}
	chunk := prog.Top.Chunk

	if buildDisassemble {
		fmt.Print(chunk.Disassemble())
	}

	outDir := buildOutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	irPath := filepath.Join(outDir, base+".ir")
	if err := os.WriteFile(irPath, []byte(chunk.Disassemble()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", irPath, err)
	}

	sourceMapEnabled := buildSourceMap && cfg.SourceMap
	if sourceMapEnabled {
		sm := emitter.GenerateSourceMap(chunk, filename, irPath)
		data, err := sm.JSON()
		if err != nil {
			return fmt.Errorf("failed to serialize source map: %w", err)
		}
		mapPath := irPath + ".map"
		if err := os.WriteFile(mapPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", mapPath, err)
		}
		if _, err := emitter.ResolveLine(data, 1); err != nil {
			return fmt.Errorf("generated source map failed to round-trip: %w", err)
		}
	}

	fmt.Printf("Compiled %s -> %s (%d instructions, %d constants)\n",
		filename, irPath, len(chunk.Code), len(chunk.Constants))
	return nil
}
