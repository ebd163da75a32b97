package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/spf13/afero"

	"github.com/hay-kot/hadaf/internal/core/styles"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("separator", c.Separator, isSingleLine),
		criterio.Run("database", c.Database, isNotEmpty),
		criterio.Run("data_dir", c.DataDir, isNotEmpty),
		c.validateFiles(),
		c.validateWatch(),
		criterio.Run("theme", c.Theme, isKnownTheme),
	)
}

// ValidateDeep performs Validate, then checks the config file and data
// directory are usable on fs. The configPath argument specifies the config
// file location to validate (empty string skips config file check).
func (c *Config) ValidateDeep(fs afero.Fs, configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(fs, configPath),
		criterio.Run("data_dir", c.DataDir, func(path string) error { return isDirectoryOrNotExist(fs, path) }),
	)
}

func (c *Config) validateFiles() error {
	if len(c.Files) == 0 {
		return criterio.NewFieldErrors("files", errors.New("at least one pattern is required"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Files {
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("files[%d]", i), fmt.Errorf("invalid pattern %q", pattern))
		}
	}
	return errs.ToError()
}

func (c *Config) validateWatch() error {
	if c.Watch.Debounce < 0 {
		return criterio.NewFieldErrors("watch.debounce", fmt.Errorf("must not be negative, got %s", c.Watch.Debounce))
	}
	return nil
}

func validateConfigFile(fs afero.Fs, configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := fs.Stat(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // not found is fine, using defaults
		}
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(fs afero.Fs, path string) error {
	if path == "" {
		return nil
	}
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // will be created
		}
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func isNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func isSingleLine(value string) error {
	if err := isNotEmpty(value); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\r\n") {
		return errors.New("must be a single line")
	}
	if strings.TrimSpace(value) != value {
		return errors.New("must not start or end with whitespace")
	}
	return nil
}

func isKnownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
