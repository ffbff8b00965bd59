package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"memomcp/internal/logging"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvMemoDir     = "MD_MEMO_DIR"
	EnvLogLevel    = "MEMOMCP_LOG_LEVEL"
	EnvHTTPTimeout = "MEMOMCP_HTTP_TIMEOUT"
)

// Config holds all memomcp configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Memo    MemoConfig    `yaml:"memo"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// MemoConfig locates the memo directory.
type MemoConfig struct {
	// Dir is the memo directory. Empty means unconfigured; memo tools then
	// fail with a precondition error.
	Dir string `yaml:"dir"`

	// GrepConcurrency bounds how many files grep reads at once.
	GrepConcurrency int `yaml:"grep_concurrency"`
}

// HTTPConfig configures outbound fetches made by readUrl.
type HTTPConfig struct {
	Timeout      string `yaml:"timeout"`
	UserAgent    string `yaml:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// ServerConfig is the identity announced during the MCP handshake.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "memomcp",
		Version: "1.0.0",

		Memo: MemoConfig{
			GrepConcurrency: 8,
		},

		HTTP: HTTPConfig{
			Timeout:      "60s",
			UserAgent:    "Mozilla/5.0 (compatible; memomcp/1.0)",
			MaxBodyBytes: 2 * 1024 * 1024,
		},

		Logging: LoggingConfig{
			Level:  "warn",
			Format: logging.FormatConsole,
		},

		Server: ServerConfig{
			Name:    "memomcp",
			Version: "1.0.0",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv(EnvMemoDir); dir != "" {
		c.Memo.Dir = dir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if timeout := os.Getenv(EnvHTTPTimeout); timeout != "" {
		// Bare integers are seconds.
		if secs, err := strconv.Atoi(timeout); err == nil {
			timeout = fmt.Sprintf("%ds", secs)
		}
		c.HTTP.Timeout = timeout
	}
}

// GetHTTPTimeout returns the fetch timeout as a duration.
func (c *Config) GetHTTPTimeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	if !c.Logging.IsValidFormat() {
		return fmt.Errorf("invalid logging.format: %q (valid: %s, %s)", c.Logging.Format, logging.FormatConsole, logging.FormatJSON)
	}
	if c.HTTP.Timeout != "" {
		d, err := time.ParseDuration(c.HTTP.Timeout)
		if err != nil {
			return fmt.Errorf("invalid http.timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid http.timeout: must be positive, got %s", d)
		}
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid http.max_body_bytes: must be positive, got %d", c.HTTP.MaxBodyBytes)
	}
	if c.Memo.GrepConcurrency < 1 {
		return fmt.Errorf("invalid memo.grep_concurrency: must be at least 1, got %d", c.Memo.GrepConcurrency)
	}
	return nil
}
