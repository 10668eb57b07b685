// Package config loads the YAML file the CLI's -config flag points at,
// following the teacher's own choice of gopkg.in/yaml.v3 for configuration
// (see DESIGN.md).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Limits bounds the interpreter's resource usage. Both fields are
// overridable from the command line (-max-depth, -seed) after the config
// file is loaded, so the file supplies defaults and the flags supply
// overrides.
type Limits struct {
	MaxDepth int   `yaml:"max_depth"`
	RandSeed int64 `yaml:"rand_seed"`
}

// Default returns the zero-configuration limits: the evaluator's built-in
// recursion cap and a fixed RNG seed, so `puffin` with no -config/-seed
// flags is still reproducible.
func Default() Limits {
	return Limits{MaxDepth: 4096, RandSeed: 1}
}

// Load reads and parses a YAML limits file at path, starting from
// Default() so a file that only sets one field leaves the other at its
// default.
func Load(path string) (Limits, error) {
	limits := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return limits, fmt.Errorf("parsing config file: %w", err)
	}
	return limits, nil
}
