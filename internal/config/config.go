// Package config loads and saves viewer configuration from YAML files and
// provides the built-in defaults, including the named window presets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Display parameters.
	Display struct {
		// Preset names the window preset applied at startup; empty means
		// the series' own window (or the full intensity range).
		Preset string `yaml:"preset"`

		// ScrollStep is the number of slices a scroll event advances.
		ScrollStep int `yaml:"scrollStep"`
	} `yaml:"display"`

	// Export parameters.
	Export struct {
		// Scale is the integer upscale factor for exported slices.
		Scale int `yaml:"scale"`

		// Label controls the axis/index text overlay.
		Label bool `yaml:"label"`
	} `yaml:"export"`

	// Demo volume parameters, used when no series is given.
	Demo struct {
		Extents [3]int `yaml:"extents"`
		Seed    uint64 `yaml:"seed"`
	} `yaml:"demo"`

	// Presets are named window (level, width) pairs selectable by name.
	Presets []WindowPreset `yaml:"presets"`
}

// WindowPreset is a named window setting.
type WindowPreset struct {
	Name  string  `yaml:"name"`
	Level float64 `yaml:"level"`
	Width float64 `yaml:"width"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Display.ScrollStep = 1
	cfg.Export.Scale = 1
	cfg.Export.Label = true
	cfg.Demo.Extents = [3]int{96, 96, 64}
	cfg.Demo.Seed = 42
	cfg.Presets = []WindowPreset{
		{Name: "soft-tissue", Level: 1024, Width: 2048},
		{Name: "narrow", Level: 2048, Width: 512},
	}
	return cfg
}

// Preset looks up a window preset by name.
func (c *Config) Preset(name string) (WindowPreset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return WindowPreset{}, false
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults without error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating the directory if
// needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
