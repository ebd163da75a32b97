package config

import (
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	return &cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty separator", mutate: func(c *Config) { c.Separator = "" }, wantField: "separator"},
		{name: "multi-line separator", mutate: func(c *Config) { c.Separator = "--\n--" }, wantField: "separator"},
		{name: "padded separator", mutate: func(c *Config) { c.Separator = " --- " }, wantField: "separator"},
		{name: "empty database", mutate: func(c *Config) { c.Database = "" }, wantField: "database"},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantField: "data_dir"},
		{name: "no files", mutate: func(c *Config) { c.Files = nil }, wantField: "files"},
		{name: "bad pattern", mutate: func(c *Config) { c.Files = []string{"*.hadaf", "[oops"} }, wantField: "files[1]"},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }, wantField: "watch.debounce"},
		{name: "unknown theme", mutate: func(c *Config) { c.Theme = "solarized" }, wantField: "theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.wantField, fieldErrs[0].Field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Separator = ""
	cfg.Files = []string{"[a", "[b"}

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, cfg.Validate(), &fieldErrs)
	assert.Len(t, fieldErrs, 3)
}

func TestValidateDeep(t *testing.T) {
	t.Run("missing config and data dir are fine", func(t *testing.T) {
		assert.NoError(t, validConfig().ValidateDeep(afero.NewMemMapFs(), "/config.yaml"))
	})

	t.Run("config path is a directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/config.yaml", 0o755))

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, validConfig().ValidateDeep(fs, "/config.yaml"), &fieldErrs)
		assert.Equal(t, "config_file", fieldErrs[0].Field)
	})

	t.Run("data dir is a file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/data", []byte("x"), 0o644))

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, validConfig().ValidateDeep(fs, ""), &fieldErrs)
		assert.Equal(t, "data_dir", fieldErrs[0].Field)
	})

	t.Run("structural errors come first", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database = ""
		assert.Error(t, cfg.ValidateDeep(afero.NewMemMapFs(), ""))
	})
}
