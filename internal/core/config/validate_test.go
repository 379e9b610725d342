package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: true,
		},
		{
			name:    "budget below a minute",
			mutate:  func(c *Config) { c.DefaultBudget = 30 * time.Second },
			wantErr: true,
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Theme = "solarized" },
			wantErr: true,
		},
		{
			name:    "unknown hook event",
			mutate:  func(c *Config) { c.Hooks = []Hook{{Event: "explode"}} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDeep(t *testing.T) {
	cfg := validConfig(t)
	cfg.Theme = "neon"
	cfg.CleanupGlobs = []string{"cache/**", "[broken"}
	cfg.Hooks = []Hook{{
		Event:    "complete",
		Commands: []string{"notify-send {{ .Missing }}"},
	}}

	err := cfg.ValidateDeep("")
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "theme")
	assert.Contains(t, fields, "cleanup_globs[1]")
	assert.Contains(t, fields, "hooks[0].commands[0]")
}

func TestConfig_ValidateDeepClean(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestConfig_Warnings(t *testing.T) {
	cfg := validConfig(t)
	cfg.CleanupGlobs = nil
	cfg.Hooks = []Hook{{Event: EventComplete}}

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.DefaultBudget)
	assert.Equal(t, "auto", cfg.Theme)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "config.yaml")
	writeFile(t, path, "default_budget: 25m\ntheme: dark\n")

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, 25*time.Minute, cfg.DefaultBudget)
	assert.Equal(t, "dark", cfg.Theme)
}
