// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	Addr          string `yaml:"addr"`
	DatabasePath  string `yaml:"database_path"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
	Environment   string `yaml:"environment"` // dev | prod
	LogLevel      string `yaml:"log_level"`   // debug | info | warn | error
}

// Load reads the YAML file at path when it exists, then applies
// environment overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("EPREADER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("EPREADER_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("EPREADER_MAX_UPLOAD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxUploadSize = n
		}
	}
	if v := os.Getenv("EPREADER_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("EPREADER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "ep-reader.db"
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = 50 << 20
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
