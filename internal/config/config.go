package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the emlfetch CLI.
type Config struct {
	Manifest     string        `yaml:"manifest"`
	Dest         string        `yaml:"dest"`
	Workers      int           `yaml:"workers"`
	SkipExisting bool          `yaml:"skip_existing"`
	Progress     bool          `yaml:"progress"`
	Verbose      bool          `yaml:"verbose"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig defines per-file retry behavior.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Workers: 5,
		Retry: RetryConfig{
			Attempts: 5,
			Delay:    time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Manifest     string          `yaml:"manifest"`
	Dest         string          `yaml:"dest"`
	Workers      int             `yaml:"workers"`
	SkipExisting bool            `yaml:"skip_existing"`
	Progress     bool            `yaml:"progress"`
	Verbose      bool            `yaml:"verbose"`
	HTTPTimeout  string          `yaml:"http_timeout"`
	Retry        yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts int    `yaml:"attempts"`
	Delay    string `yaml:"delay"`
}

// LoadFromFile loads configuration from a YAML file on top of the
// defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Manifest != "" {
		cfg.Manifest = yc.Manifest
	}
	if yc.Dest != "" {
		cfg.Dest = yc.Dest
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	cfg.SkipExisting = yc.SkipExisting
	cfg.Progress = yc.Progress
	cfg.Verbose = yc.Verbose
	if yc.HTTPTimeout != "" {
		d, err := time.ParseDuration(yc.HTTPTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse http_timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Delay != "" {
		d, err := time.ParseDuration(yc.Retry.Delay)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.delay: %w", err)
		}
		cfg.Retry.Delay = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables with the
// EML_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("EML_MANIFEST"); v != "" {
		c.Manifest = v
	}
	if v := os.Getenv("EML_DEST"); v != "" {
		c.Dest = v
	}
	if v := os.Getenv("EML_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse EML_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("EML_SKIP_EXISTING"); v != "" {
		c.SkipExisting = v == "true" || v == "1"
	}
	if v := os.Getenv("EML_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("EML_VERBOSE"); v != "" {
		c.Verbose = v == "true" || v == "1"
	}
	if v := os.Getenv("EML_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse EML_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("EML_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse EML_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("EML_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse EML_RETRY_DELAY: %w", err)
		}
		c.Retry.Delay = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Manifest == "" {
		return errors.New("config: manifest is required")
	}
	if c.Dest == "" {
		return errors.New("config: dest is required")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Retry.Attempts <= 0 {
		return errors.New("config: retry.attempts must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Manifest != "" {
		c.Manifest = override.Manifest
	}
	if override.Dest != "" {
		c.Dest = override.Dest
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.SkipExisting {
		c.SkipExisting = true
	}
	if override.Progress {
		c.Progress = true
	}
	if override.Verbose {
		c.Verbose = true
	}
	if override.HTTPTimeout != 0 {
		c.HTTPTimeout = override.HTTPTimeout
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Delay != 0 {
		c.Retry.Delay = override.Retry.Delay
	}
	return c
}
