// Package config loads SharpTS's project settings the way the rest of the
// pack's CLIs load theirs: a Config struct with mapstructure tags, defaults
// registered on a viper.Viper, and a project file (sharpts.toml, always
// parsed as TOML) merged in and overridden by SHARPTS_*-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config mirrors the handful of settings a tsconfig.json would carry:
// strictness, the output directory for the IR emitter, and presentation
// toggles for the CLI. The CLI consults OutDir, SourceMap and NoColor;
// Strict, Target and Watch are loaded but no code reads them.
type Config struct {
	// Strict is loaded from configuration; the checker has no strict mode
	// and does not read it.
	Strict bool `mapstructure:"strict"`

	// Target is loaded from configuration; the emitter has a single
	// lowering and does not read it.
	Target string `mapstructure:"target"`

	// OutDir is where `sharpts build` writes emitted bytecode/source maps.
	OutDir string `mapstructure:"outDir"`

	// SourceMap enables source-map writing alongside emitted output.
	SourceMap bool `mapstructure:"sourceMap"`

	// Color forces colored diagnostic/REPL output on or off; nil (the zero
	// value surfaced as a *bool at the CLI layer) means auto-detect.
	Color bool `mapstructure:"color"`

	// NoColor explicitly disables color even on a terminal, distinguishing
	// "not set" from "set to false" since Color alone can't.
	NoColor bool `mapstructure:"noColor"`

	// Watch is loaded from configuration but not read; watching is the
	// separate `sharpts watch` command (internal/repl/watch.go).
	Watch bool `mapstructure:"watch"`
}

// defaults mirrors every Config field with the value Load falls back to
// absent a config file or environment override.
var defaults = map[string]any{
	"strict":    true,
	"target":    "es2017",
	"outDir":    "dist",
	"sourceMap": true,
	"color":     true,
	"noColor":   false,
	"watch":     false,
}

// Load builds a Config from (in ascending priority) built-in defaults, a
// sharpts config file discovered on path, and SHARPTS_-prefixed environment
// variables. path may be empty, in which case only the current directory is
// searched.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetConfigName("sharpts")
	v.SetConfigType("toml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("SHARPTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
