// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	DataDir         string
	CacheDir        string
	ConfigPath      string // Location of the configuration record written at install time
	DBPath          string
	Session         SessionConfig
	ZoneinfoDir     string
	DefaultTimezone string
}

// SessionConfig controls server-side session storage.
type SessionConfig struct {
	Dir    string
	Key    string // Cookie authentication key; a random one is generated when empty
	Secure bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DataDir:     dataDir,
		CacheDir:    getEnv("CACHE_DIR", "./cache"),
		ConfigPath:  getEnv("CONFIG_PATH", filepath.Join(dataDir, "config.toml")),
		DBPath:      getEnv("DB_PATH", filepath.Join(dataDir, "bookmarks.db")),
		ZoneinfoDir: getEnv("ZONEINFO_DIR", "/usr/share/zoneinfo"),
		Session: SessionConfig{
			Dir:    getEnv("SESSION_DIR", "./tmp/sessions"),
			Key:    getEnv("SESSION_KEY", ""),
			Secure: getEnvBool("SESSION_SECURE", false),
		},
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", getEnv("TZ", "UTC")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("CACHE_DIR cannot be empty")
	}
	if c.ConfigPath == "" {
		return fmt.Errorf("CONFIG_PATH cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Session.Dir == "" {
		return fmt.Errorf("SESSION_DIR cannot be empty")
	}
	return nil
}

// ConfigDir returns the directory holding the configuration record.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.ConfigPath)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
