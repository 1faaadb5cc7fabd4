// Package config loads vcc settings from a YAML file.
package config

import (
	"log"
	"time"

	"github.com/vcrobe/vcc/compiler"
)

// Config represents the complete vcc configuration
type Config struct {
	BaseDir      string        `yaml:"-"`             // Directory containing config file, for resolving relative paths
	SrcDir       string        `yaml:"src_dir"`       // Directory searched for components when no path is given
	OutDir       string        `yaml:"out_dir"`       // Output root; empty writes next to each source
	Extension    string        `yaml:"extension"`     // Component source extension
	OutExtension string        `yaml:"out_extension"` // Generated file extension
	Runtime      string        `yaml:"runtime"`       // Import path of h and Component in generated code
	Container    string        `yaml:"container"`     // Tag template blocks are normalized to
	Hooks        []string      `yaml:"hooks"`         // Identifiers rewritten to this.<hook>
	Sanitize     bool          `yaml:"sanitize"`      // Reject unsafe markup in templates
	Workers      int           `yaml:"workers"`       // Concurrent compiles; 0 means one per CPU
	Dev          bool          `yaml:"dev"`           // Development mode (warnings)
	Watch        WatchConfig   `yaml:"watch"`
	Logging      LoggingConfig `yaml:"logging"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // Quiet period before recompiling
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Quiet   bool `yaml:"quiet"`   // Only print errors
	Verbose bool `yaml:"verbose"` // Print every compiled file
}

// Defaults returns a Config with sensible default values
func Defaults() *Config {
	return &Config{
		SrcDir:       ".",
		Extension:    compiler.DefaultExtension,
		OutExtension: compiler.DefaultOutExtension,
		Runtime:      compiler.DefaultRuntime,
		Container:    compiler.DefaultContainer,
		Hooks:        append([]string(nil), compiler.DefaultHooks...),
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// CompilerOptions returns the compiler options described by cfg.
// logger receives progress and dev mode warnings.
func (cfg *Config) CompilerOptions(logger *log.Logger) compiler.Options {
	return compiler.Options{
		Runtime:      cfg.Runtime,
		Container:    cfg.Container,
		Hooks:        cfg.Hooks,
		Sanitize:     cfg.Sanitize,
		DevMode:      cfg.Dev,
		Verbose:      cfg.Logging.Verbose,
		Extension:    cfg.Extension,
		OutExtension: cfg.OutExtension,
		OutDir:       cfg.OutDir,
		Workers:      cfg.Workers,
		Logger:       logger,
	}
}
