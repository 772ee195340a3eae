package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from file and environment.
type Loader struct {
	configPath string
}

// NewLoader creates a config loader. An empty path searches the default
// locations.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads configuration from file and environment. Environment
// variables use the MYSKY_ prefix with underscores for nesting, e.g.
// MYSKY_PORTAL_BASE_URL.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("portal.base_url", defaults.Portal.BaseURL)
	v.SetDefault("portal.timeout", defaults.Portal.Timeout)
	v.SetDefault("portal.max_retries", defaults.Portal.MaxRetries)
	v.SetDefault("portal.user_agent", defaults.Portal.UserAgent)
	v.SetDefault("portal.account_tweak", defaults.Portal.AccountTweak)
	v.SetDefault("authority.url", defaults.Authority.URL)
	v.SetDefault("authority.connect_timeout", defaults.Authority.ConnectTimeout)
	v.SetDefault("authority.max_attempts", defaults.Authority.MaxAttempts)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("dev.dev_mode", defaults.Dev.DevMode)

	v.SetEnvPrefix("MYSKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	} else {
		v.SetConfigName("mysky")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "mysky"))
			v.AddConfigPath(filepath.Join(homeDir, ".mysky"))
		}
		if err := v.ReadInConfig(); err != nil {
			// Missing file is fine; defaults plus env apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
