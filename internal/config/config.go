// Package config handles global configuration and cache paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/citefmt/config.yml.
// Environment variables CITEFMT_MAILTO and CITEFMT_API_URL override the
// file values.
type Config struct {
	// CrossRefMailto is the contact address for CrossRef's polite pool.
	CrossRefMailto string `yaml:"crossref_mailto,omitempty"`
	// CrossRefAPIURL overrides the works API base URL.
	CrossRefAPIURL string `yaml:"crossref_api_url,omitempty"`
	// MaxParallel bounds concurrent lookups.
	MaxParallel int `yaml:"max_parallel,omitempty"`
	// TimeoutSeconds bounds one record's lookup.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	// CacheTTLDays is how long cached lookups stay valid.
	CacheTTLDays int `yaml:"cache_ttl_days,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "citefmt"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheFile is the lookup cache file name under XDG_CACHE_HOME.
	CacheFile = "lookups.db"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultMaxParallel    = 4
	DefaultTimeoutSeconds = 10
	DefaultCacheTTLDays   = 30
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/citefmt/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// CachePath returns the path to the lookup cache database. Respects
// XDG_CACHE_HOME, defaults to ~/.cache/citefmt/lookups.db.
func CachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, ConfigDir, CacheFile)
}

// Load loads the configuration file, applies environment overrides, and
// fills defaults. A missing file is not an error.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	cfg := &Config{}
	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	configCache = cfg
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CITEFMT_MAILTO")); v != "" {
		cfg.CrossRefMailto = v
	}
	if v := strings.TrimSpace(os.Getenv("CITEFMT_API_URL")); v != "" {
		cfg.CrossRefAPIURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultMaxParallel
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.CacheTTLDays <= 0 {
		cfg.CacheTTLDays = DefaultCacheTTLDays
	}
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	configCache = nil
}

// Timeout returns the lookup timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLDays) * 24 * time.Hour
}
