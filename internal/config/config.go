// Package config provides configuration management for the VibeFlo
// client.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DataDirName is the directory under $HOME holding client state.
	DataDirName = ".vibeflo"

	// ConfigFileName is the YAML configuration file inside the data
	// directory.
	ConfigFileName = "config.yaml"

	// DBFileName is the local cache database inside the data
	// directory.
	DBFileName = "vibeflo.db"
)

// Config holds client configuration.
type Config struct {
	// APIURL overrides base-URL resolution when set.
	APIURL string `yaml:"api_url"`

	// Hostname and Production are the environment signals fed to
	// endpoint resolution.
	Hostname   string `yaml:"hostname"`
	Production bool   `yaml:"production"`

	DataDir string `yaml:"data_dir"`

	RequestTimeout     time.Duration `yaml:"request_timeout"`
	RefreshMinInterval time.Duration `yaml:"refresh_min_interval"`
	MaxConns           int           `yaml:"max_conns"`
	Debug              bool          `yaml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:            DataDir(),
		RequestTimeout:     30 * time.Second,
		RefreshMinInterval: 5 * time.Second,
		MaxConns:           4,
	}
}

// DataDir returns the client data directory path.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

// ConfigPath returns the configuration file path.
func ConfigPath() string {
	return filepath.Join(DataDir(), ConfigFileName)
}

// DBPath returns the local database path for cfg.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}

// Load reads the configuration file, layering it over defaults. A
// missing file is not an error: defaults are returned. The VIBEFLO_API_URL
// environment variable overrides the configured API URL.
func Load() (*Config, error) {
	return LoadPath(ConfigPath())
}

// LoadPath is Load against an explicit file path.
func LoadPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DataDir()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.RefreshMinInterval <= 0 {
		cfg.RefreshMinInterval = 5 * time.Second
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 4
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if url := os.Getenv("VIBEFLO_API_URL"); url != "" {
		cfg.APIURL = url
	}
	if os.Getenv("VIBEFLO_DEBUG") == "1" {
		cfg.Debug = true
	}
}
