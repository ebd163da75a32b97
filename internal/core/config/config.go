// Package config handles configuration loading and validation for hadaf.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/hadaf/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	// Separator is the text of the item splitting a document into its
	// operations section and its content section.
	Separator string `yaml:"separator"`
	// Database is the database file, relative to DataDir unless absolute.
	Database string `yaml:"database"`
	// Files are doublestar patterns selecting the documents handled by
	// `fmt --all` and `watch`.
	Files []string    `yaml:"files"`
	Watch WatchConfig `yaml:"watch"`
	// Theme names the color palette of styled command output.
	Theme   string `yaml:"theme"`
	DataDir string `yaml:"-"` // set by caller, not from config file
}

// WatchConfig holds document watcher settings.
type WatchConfig struct {
	// Debounce is how long a document must stay quiet before it is handled.
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Separator: "---",
		Database:  "db.json",
		Files:     []string{"**/*.hadaf"},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Theme: styles.DefaultTheme,
	}
}

// Load reads configuration from the given path on fs and validates it. If
// configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(fs afero.Fs, configPath, dataDir string) (*Config, error) {
	cfg, err := Read(fs, configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for callers that report problems
// themselves.
func Read(fs afero.Fs, configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		exists, err := afero.Exists(fs, configPath)
		if err != nil {
			return nil, fmt.Errorf("stat config file: %w", err)
		}

		if exists {
			data, err := afero.ReadFile(fs, configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir

	// Apply defaults for zero values
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Separator == "" {
		c.Separator = defaults.Separator
	}
	if c.Database == "" {
		c.Database = defaults.Database
	}
	if len(c.Files) == 0 {
		c.Files = defaults.Files
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// DatabasePath returns the path of the database file.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}
