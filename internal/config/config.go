package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Portal is the remote portal the account lives on.
	Portal PortalConfig `mapstructure:"portal"`

	// Authority is the permissions provider endpoint.
	Authority AuthorityConfig `mapstructure:"authority"`

	// Storage paths
	Storage StorageConfig `mapstructure:"storage"`

	// Logging
	Log LogConfig `mapstructure:"log"`

	// Development options
	Dev DevConfig `mapstructure:"dev"`
}

// PortalConfig for portal account communication.
type PortalConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent"`

	// AccountTweak salts the portal login keypair so portal keys never
	// collide with filesystem or identity keys from the same seed.
	AccountTweak string `mapstructure:"account_tweak"`
}

// AuthorityConfig for the permissions provider.
type AuthorityConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
}

// StorageConfig for local credential storage.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`

	// Backend selects the credential store: "file" or "sqlite".
	Backend string `mapstructure:"backend"`
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
	File   string `mapstructure:"file"`   // empty = stdout
}

// DevConfig for development/debugging.
type DevConfig struct {
	// DevMode is forwarded to the permissions authority, which may relax
	// its policy for local development.
	DevMode bool `mapstructure:"dev_mode"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".mysky"

	return &Config{
		Portal: PortalConfig{
			BaseURL:      "https://account.siasky.net",
			Timeout:      30 * time.Second,
			MaxRetries:   3,
			UserAgent:    "mysky-cli",
			AccountTweak: "mysky portal account",
		},
		Authority: AuthorityConfig{
			URL:            "https://permissions.siasky.net/rpc",
			ConnectTimeout: 10 * time.Second,
			MaxAttempts:    3,
		},
		Storage: StorageConfig{
			DataDir: dataDir,
			Backend: "file",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Portal.BaseURL == "" {
		return errors.New("portal.base_url is required")
	}
	if c.Portal.Timeout <= 0 {
		return errors.New("portal.timeout must be positive")
	}
	if c.Authority.URL == "" {
		return errors.New("authority.url is required")
	}
	if c.Authority.MaxAttempts < 1 {
		return errors.New("authority.max_attempts must be at least 1")
	}

	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Storage.DataDir}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
