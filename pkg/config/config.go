// Package config loads and validates run configuration for the
// communities CLI from YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// Config is the top-level run configuration.
type Config struct {
	Dataset   Dataset   `yaml:"dataset"`
	Models    []Model   `yaml:"models" validate:"required,min=1,dive"`
	Detection Detection `yaml:"detection"`
	Workers   int       `yaml:"workers" validate:"gte=0"`
	Export    Export    `yaml:"export"`
	LogLevel  string    `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Dataset points at the input graph and optional ground truth.
type Dataset struct {
	Edges    string `yaml:"edges" validate:"required"`
	Clusters string `yaml:"clusters"`
}

// Model selects a quality model and optional initial parameters.
type Model struct {
	Name       string             `yaml:"name" validate:"required,oneof=ppm dcppm ilfr ilfrs"`
	Parameters map[string]float64 `yaml:"parameters"`
}

// Detection tunes the optimization loop. Zero values use the library
// defaults.
type Detection struct {
	MaxPasses          int     `yaml:"max_passes" validate:"gte=0"`
	MaxOuterIterations int     `yaml:"max_outer_iterations" validate:"gte=0"`
	Tolerance          float64 `yaml:"tolerance" validate:"gte=0"`
	Seed               int64   `yaml:"seed"`
}

// Export controls result persistence. An empty path disables export.
type Export struct {
	Path string `yaml:"path"`
}

// Load reads, parses and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
