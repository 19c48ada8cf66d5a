// Package config provides configuration management for skillmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
)

// Defaults.
const (
	DefaultServerPort       = 8787
	DefaultFetchLimit       = 800
	DefaultMinClusterSize   = 3
	DefaultRelatedThreshold = 0.3
	DefaultMaxConns         = 4

	// MaxFetchLimit is the hard cap on the bookmark import size. The whole
	// pipeline is sized for in-memory analysis of at most this many posts.
	MaxFetchLimit = 800

	dataDirName  = ".skillmap"
	settingsFile = "settings.json"
	dbFile       = "skillmap.db"
)

// Config holds all runtime settings. Stored as settings.json in the data
// directory; individual fields can be overridden through SKILLMAP_*
// environment variables.
type Config struct {
	APIToken         string  `json:"api_token,omitempty"`
	APIBaseURL       string  `json:"api_base_url,omitempty"`
	FetchLimit       int     `json:"fetch_limit"`
	MinClusterSize   int     `json:"min_cluster_size"`
	RelatedThreshold float64 `json:"related_threshold"`
	ServerPort       int     `json:"server_port"`
	LexiconPath      string  `json:"lexicon_path,omitempty"`
	MaxConns         int     `json:"max_conns"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		FetchLimit:       DefaultFetchLimit,
		MinClusterSize:   DefaultMinClusterSize,
		RelatedThreshold: DefaultRelatedThreshold,
		ServerPort:       DefaultServerPort,
		MaxConns:         DefaultMaxConns,
	}
}

// DataDir returns the skillmap data directory under the user's home.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// SettingsPath returns the path of the settings file.
func SettingsPath() string {
	return filepath.Join(DataDir(), settingsFile)
}

// DBPath returns the path of the cache database.
func DBPath() string {
	return filepath.Join(DataDir(), dbFile)
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}

// EnsureSettings writes a default settings file if none exists.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// EnsureAll creates the data directory and settings file.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// Load reads the settings file, fills in defaults for zero values, and
// applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	cfg.fillDefaults()
	applyEnv(cfg)
	cfg.clampLimits()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.FetchLimit <= 0 {
		c.FetchLimit = DefaultFetchLimit
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = DefaultMinClusterSize
	}
	if c.RelatedThreshold <= 0 {
		c.RelatedThreshold = DefaultRelatedThreshold
	}
	if c.ServerPort <= 0 {
		c.ServerPort = DefaultServerPort
	}
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
}

func (c *Config) clampLimits() {
	if c.FetchLimit > MaxFetchLimit {
		c.FetchLimit = MaxFetchLimit
	}
}

// applyEnv overrides settings from SKILLMAP_* environment variables. The
// token override means the secret never has to live in the settings file.
func applyEnv(c *Config) {
	if v := os.Getenv("SKILLMAP_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("SKILLMAP_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("SKILLMAP_FETCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.FetchLimit = n
		}
	}
	if v := os.Getenv("SKILLMAP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ServerPort = n
		}
	}
	if v := os.Getenv("SKILLMAP_LEXICON"); v != "" {
		c.LexiconPath = v
	}
}
