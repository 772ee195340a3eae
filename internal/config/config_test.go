package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkynetHQ/skynet-mysky/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.NotEmpty(t, cfg.Portal.BaseURL)
	assert.Positive(t, cfg.Portal.Timeout)
	assert.NotEmpty(t, cfg.Portal.AccountTweak)
	assert.NotEmpty(t, cfg.Authority.URL)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Dev.DevMode)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr string
	}{
		{
			name:    "valid config",
			modify:  func(c *config.Config) {},
			wantErr: "",
		},
		{
			name: "missing portal URL",
			modify: func(c *config.Config) {
				c.Portal.BaseURL = ""
			},
			wantErr: "portal.base_url is required",
		},
		{
			name: "negative timeout",
			modify: func(c *config.Config) {
				c.Portal.Timeout = -time.Second
			},
			wantErr: "portal.timeout must be positive",
		},
		{
			name: "missing authority URL",
			modify: func(c *config.Config) {
				c.Authority.URL = ""
			},
			wantErr: "authority.url is required",
		},
		{
			name: "zero connect attempts",
			modify: func(c *config.Config) {
				c.Authority.MaxAttempts = 0
			},
			wantErr: "authority.max_attempts",
		},
		{
			name: "unknown storage backend",
			modify: func(c *config.Config) {
				c.Storage.Backend = "redis"
			},
			wantErr: "invalid storage backend",
		},
		{
			name: "invalid log level",
			modify: func(c *config.Config) {
				c.Log.Level = "loud"
			},
			wantErr: "invalid log level",
		},
		{
			name: "invalid log format",
			modify: func(c *config.Config) {
				c.Log.Format = "xml"
			},
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := config.NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Portal.BaseURL, cfg.Portal.BaseURL)
}

func TestLoaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mysky.json")
	content := `{
  "portal": {"base_url": "https://portal.test", "timeout": "10s"},
  "storage": {"backend": "sqlite"},
  "dev": {"dev_mode": true}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://portal.test", cfg.Portal.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Portal.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.True(t, cfg.Dev.DevMode)
	// Untouched keys keep their defaults.
	assert.Equal(t, config.DefaultConfig().Authority.URL, cfg.Authority.URL)
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv("MYSKY_PORTAL_BASE_URL", "https://env.test")
	t.Setenv("MYSKY_DEV_DEV_MODE", "true")

	cfg, err := config.NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.test", cfg.Portal.BaseURL)
	assert.True(t, cfg.Dev.DevMode)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mysky.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log": {"level": "loud"}}`), 0600))

	_, err := config.NewLoader(path).Load()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Log.File = filepath.Join(dir, "logs", "mysky.log")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Storage.DataDir)
	assert.DirExists(t, filepath.Join(dir, "logs"))
}
