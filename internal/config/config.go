package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// It is built once per invocation and passed to the components that need it.
type Config struct {
	DBURL        string        `mapstructure:"db_url" yaml:"db_url"`
	Editor       string        `mapstructure:"editor" yaml:"editor"`
	ShellPrefix  string        `mapstructure:"shell_prefix" yaml:"shell_prefix"`
	Color        bool          `mapstructure:"color" yaml:"color"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
}

// DefaultDir returns the default config directory: ~/.config/bkmr
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bkmr"), nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/bkmr/config.yaml
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	dbURL := "bkmr.db"
	if dir, err := DefaultDir(); err == nil {
		dbURL = filepath.Join(dir, "bkmr.db")
	}
	return Config{
		DBURL:        dbURL,
		Editor:       "vim",
		ShellPrefix:  "shell::",
		Color:        true,
		LogLevel:     "warn",
		FetchTimeout: 10 * time.Second,
	}
}

// Load reads configuration from path (or the default location when empty),
// then applies BKMR_* environment overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("db_url", defaults.DBURL)
	v.SetDefault("editor", defaults.Editor)
	v.SetDefault("shell_prefix", defaults.ShellPrefix)
	v.SetDefault("color", defaults.Color)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("fetch_timeout", defaults.FetchTimeout)

	// Environment variable overrides
	v.SetEnvPrefix("BKMR")
	v.AutomaticEnv()
	_ = v.BindEnv("db_url", "BKMR_DB_URL")
	_ = v.BindEnv("editor", "BKMR_EDITOR", "EDITOR")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.DBURL = expandHome(cfg.DBURL)
	if cfg.ShellPrefix == "" {
		cfg.ShellPrefix = defaults.ShellPrefix
	}
	if cfg.Editor == "" {
		cfg.Editor = defaults.Editor
	}

	return &cfg, nil
}

// WriteDefault writes cfg as YAML to path unless a file already exists there.
// Creates the directory if it doesn't exist.
func WriteDefault(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}
