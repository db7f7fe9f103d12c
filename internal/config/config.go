// =============================================================================
// Bank Transaction Interchange - Tool Configuration
// =============================================================================
//
// This module loads the optional YAML configuration consumed by the CLI
// tools. Everything here has a sensible default; the tools run without
// any configuration file at all. The codec library itself takes no
// configuration: wire formats are fixed contracts.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CompareDefaults holds default comparison options, overridable per run
// by CLI flags.
type CompareDefaults struct {
	// OrderSensitive requires matching transactions to occupy the same
	// positions. Default: false.
	OrderSensitive bool `yaml:"order_sensitive"`

	// IgnoreIDs matches transactions by their full non-id field tuple.
	// Default: false.
	IgnoreIDs bool `yaml:"ignore_ids"`

	// IgnoreMissing reports one-sided transactions as additions and
	// removals instead of hard inequality. Default: false.
	IgnoreMissing bool `yaml:"ignore_missing"`
}

// Config is the tool configuration loaded from YAML.
type Config struct {
	// DefaultTarget is the format used by `convert` when neither --to
	// nor a recognizable output extension is given.
	// Valid values: "text", "binary", "csv", "xlsx".
	DefaultTarget string `yaml:"default_target"`

	// OutputName is the naming pattern for generated files when --out
	// points at a directory. Supported tokens:
	//   {uuid}      - a random UUID
	//   {stem}      - input file name without extension
	//   {format}    - target format name
	//   {timestamp} - UTC time as 20060102T150405
	OutputName string `yaml:"output_name"`

	// LogLevel controls CLI verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Compare holds default comparison options.
	Compare CompareDefaults `yaml:"compare"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML configuration file, applies defaults and validates
// the result. A missing file is not an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DefaultTarget == "" {
		cfg.DefaultTarget = "csv"
	}
	if cfg.OutputName == "" {
		cfg.OutputName = "{stem}_{uuid}"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	switch cfg.DefaultTarget {
	case "text", "binary", "csv", "xlsx":
	default:
		return fmt.Errorf("default_target %q is not a known format", cfg.DefaultTarget)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug/info/warn/error", cfg.LogLevel)
	}
	return nil
}
