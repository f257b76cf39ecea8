// Package config provides configuration loading for conductor.
//
// Precedence (highest to lowest): environment variables (CONDUCTOR_ prefix),
// YAML config file, hardcoded defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/conductor/internal/logging"
	"github.com/fyrsmithlabs/conductor/internal/prompt"
)

// Validation errors.
var (
	ErrNoPhases    = errors.New("at least one phase must be configured")
	ErrNoOutputDir = errors.New("output root directory is required")
)

// Config is the root configuration.
type Config struct {
	// Phases is the ordered list of phase identifiers to execute.
	Phases []string `koanf:"phases"`

	Truncation   TruncationConfig   `koanf:"truncation"`
	Instructions InstructionsConfig `koanf:"instructions"`
	Output       OutputConfig       `koanf:"output"`
	Worker       WorkerConfig       `koanf:"worker"`
	Logging      *logging.Config    `koanf:"logging"`
}

// TruncationConfig controls prior-result previews in phase payloads.
type TruncationConfig struct {
	// Threshold is the per-result preview budget in runes.
	Threshold int `koanf:"threshold"`
}

// InstructionsConfig locates per-phase instruction files.
type InstructionsConfig struct {
	Dir string `koanf:"dir"`
}

// OutputConfig locates run output.
type OutputConfig struct {
	// Root holds one subdirectory per run.
	Root string `koanf:"root"`
}

// WorkerConfig configures the external worker command.
type WorkerConfig struct {
	// Command is the executable invoked once per phase. Required to run.
	Command string `koanf:"command"`

	// Args are passed to the command before the payload arrives on stdin.
	Args []string `koanf:"args"`

	// Models maps a worker tier to the model name exported to the command.
	Models map[string]string `koanf:"models"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Phases: []string{"research", "plan", "implement", "correct"},
		Truncation: TruncationConfig{
			Threshold: prompt.DefaultThreshold,
		},
		Instructions: InstructionsConfig{
			Dir: ".conductor/instructions",
		},
		Output: OutputConfig{
			Root: ".conductor/runs",
		},
		Worker: WorkerConfig{
			Models: map[string]string{
				"light":    "claude-haiku-4-5-20251001",
				"standard": "claude-sonnet-4-5-20250929",
				"deep":     "claude-opus-4-1-20250805",
			},
		},
		Logging: logging.NewDefaultConfig(),
	}
}

// Validate checks the configuration for use.
func (c *Config) Validate() error {
	if len(c.Phases) == 0 {
		return ErrNoPhases
	}
	for _, phase := range c.Phases {
		if phase == "" {
			return fmt.Errorf("%w: empty phase identifier", ErrNoPhases)
		}
	}
	if c.Truncation.Threshold <= 0 {
		return fmt.Errorf("truncation threshold must be positive, got %d", c.Truncation.Threshold)
	}
	if c.Output.Root == "" {
		return ErrNoOutputDir
	}
	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return fmt.Errorf("logging: %w", err)
		}
	}
	return nil
}
