// Package config handles configuration loading for emdash.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Detection DetectionConfig  `yaml:"detection"`
	Providers []ProviderConfig `yaml:"providers"`
	DataDir   string           `yaml:"-"` // set by caller, not from config file
}

// ProviderConfig declares an extra agent CLI beyond the builtin catalog.
// An entry whose id collides with a builtin replaces it.
type ProviderConfig struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Commands    []string `yaml:"commands"`
	VersionArgs []string `yaml:"version_args"`
	DocsURL     string   `yaml:"docs_url"`
	InstallHint string   `yaml:"install_hint"`
}

// DetectionConfig tunes the provider connectivity detection engine.
type DetectionConfig struct {
	// TimeoutMS bounds a single probe attempt.
	TimeoutMS int `yaml:"timeout_ms"`
	// Disabled lists glob patterns of provider ids that should never be
	// probed, e.g. "gemini" or "c*".
	Disabled []string `yaml:"disabled"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Detection: DetectionConfig{
			TimeoutMS: 3000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	if cfg.Detection.TimeoutMS <= 0 {
		cfg.Detection.TimeoutMS = DefaultConfig().Detection.TimeoutMS
	}

	return &cfg, nil
}

// Timeout returns the probe timeout as a duration.
func (c DetectionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// IsDisabled reports whether the provider id matches a disabled pattern.
func (c DetectionConfig) IsDisabled(id string) bool {
	for _, pattern := range c.Disabled {
		if ok, err := doublestar.Match(pattern, id); err == nil && ok {
			return true
		}
	}
	return false
}
