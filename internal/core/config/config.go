// Package config handles configuration loading and validation for timebox.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Hook event names.
const (
	EventComplete = "complete"
	EventTimeUp   = "time_up"
)

// Config holds the application configuration.
type Config struct {
	// DefaultBudget is the session time budget used when none is given.
	DefaultBudget time.Duration `yaml:"default_budget"`
	// Theme selects color variants: light, dark, or auto.
	Theme string `yaml:"theme"`
	// CleanupGlobs lists disposable state-store keys that may be purged
	// when a persist fails for lack of space.
	CleanupGlobs []string `yaml:"cleanup_globs"`
	// Hooks run shell commands on session events.
	Hooks []Hook `yaml:"hooks"`

	DataDir string `yaml:"-"` // set by caller, not from config file
}

// Hook defines shell commands to run when a session event fires.
type Hook struct {
	// Event is the session event that triggers the hook.
	Event string `yaml:"event"`
	// Commands are rendered as templates and run in order.
	Commands []string `yaml:"commands"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultBudget: time.Hour,
		Theme:         "auto",
		CleanupGlobs: []string{
			"cache/**",
			"tmp/**",
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

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// UnmarshalYAML decodes the config, parsing durations from strings like
// "25m" or "1h30m". Fields absent from the document keep their current
// (default) values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		DefaultBudget string   `yaml:"default_budget"`
		Theme         string   `yaml:"theme"`
		CleanupGlobs  []string `yaml:"cleanup_globs"`
		Hooks         []Hook   `yaml:"hooks"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.DefaultBudget != "" {
		d, err := time.ParseDuration(raw.DefaultBudget)
		if err != nil {
			return fmt.Errorf("parse default_budget: %w", err)
		}
		c.DefaultBudget = d
	}
	if raw.Theme != "" {
		c.Theme = raw.Theme
	}
	if raw.CleanupGlobs != nil {
		c.CleanupGlobs = raw.CleanupGlobs
	}
	if raw.Hooks != nil {
		c.Hooks = raw.Hooks
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DefaultBudget == 0 {
		c.DefaultBudget = defaults.DefaultBudget
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.DefaultBudget < time.Minute {
		return fmt.Errorf("default_budget must be at least one minute")
	}

	if !isValidTheme(c.Theme) {
		return fmt.Errorf("theme must be one of: auto, light, dark")
	}

	for i, h := range c.Hooks {
		if !isValidEvent(h.Event) {
			return fmt.Errorf("hook %d has invalid event %q", i, h.Event)
		}
	}

	return nil
}

// ActivitiesFile returns the path to the activities JSON file.
func (c *Config) ActivitiesFile() string {
	return filepath.Join(c.DataDir, "activities.json")
}

// StateFile returns the path to the persisted key-value state file.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "state.json")
}

// SessionFile returns the path to the session snapshot file.
func (c *Config) SessionFile() string {
	return filepath.Join(c.DataDir, "session.json")
}

func isValidTheme(theme string) bool {
	switch theme {
	case "auto", "light", "dark":
		return true
	default:
		return false
	}
}

func isValidEvent(event string) bool {
	switch event {
	case EventComplete, EventTimeUp:
		return true
	default:
		return false
	}
}
