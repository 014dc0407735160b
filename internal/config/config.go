// Package config loads pineforms settings from ~/.pineforms/config.yaml with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/pineforms/internal/submit"
)

const (
	dirName        = ".pineforms"
	configFileName = "config.yaml"
	historyName    = "history.json"
	logFileName    = "pineforms.log"

	EnvEndpoint = "PINEFORMS_ENDPOINT"
	EnvTimeout  = "PINEFORMS_TIMEOUT"
)

// Config holds all pineforms settings.
type Config struct {
	// Collection endpoint every form posts to.
	Endpoint string `yaml:"endpoint"`
	// Request timeout, e.g. "15s".
	Timeout string `yaml:"timeout"`
	// UI theme: classic, neon or mono.
	Theme string `yaml:"theme"`
	// Keep a local list of sent receipts.
	History bool `yaml:"history"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // used while the TUI owns the terminal
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint: submit.DefaultEndpoint,
		Timeout:  submit.DefaultTimeout.String(),
		Theme:    "classic",
		History:  true,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir is the per-user settings directory (~/.pineforms).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads path, falling back to defaults when the file does not exist,
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating its directory with 0700.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		c.Timeout = v
	}
}

// GetTimeout parses Timeout, falling back to the client default.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return submit.DefaultTimeout
	}
	return d
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
	}
	return nil
}

// HistoryPath is where sent receipts are kept, next to the config file.
func HistoryPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), historyName)
}

// LogPath is the log file used in interactive mode.
func (c *Config) LogPath(configPath string) string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(filepath.Dir(configPath), logFileName)
}
