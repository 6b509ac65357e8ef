// Package source builds a meta.Catalog by loading Go packages from source.
package source

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"typebind/internal/analyze"
)

// Config selects the packages to describe and how to read them.
type Config struct {
	Version   string   `yaml:"version"`
	Patterns  []string `yaml:"patterns"`
	Dir       string   `yaml:"dir,omitempty"`
	Directive string   `yaml:"directive,omitempty"`
	Tests     bool     `yaml:"tests,omitempty"`
	BuildTags []string `yaml:"build_tags,omitempty"`
	// Strict turns loader warnings into a failed load.
	Strict bool `yaml:"strict,omitempty"`
}

// LoadConfigFile loads and parses a YAML config file from the given path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML data into a Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	if cfg.Directive == "" {
		cfg.Directive = analyze.DefaultDirective
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}
}

// Validate reports configuration values the loader cannot work with.
func (c *Config) Validate() error {
	if c.Version != "1" {
		return fmt.Errorf("unsupported config version %q", c.Version)
	}

	for _, p := range c.Patterns {
		if p == "" {
			return errors.New("empty package pattern")
		}
	}

	return nil
}

// Marshal serializes a Config to YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
