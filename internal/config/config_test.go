// Package config provides configuration management for the VibeFlo
// client.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// ConfigSuite is a test suite for config operations.
type ConfigSuite struct {
	suite.Suite
	tempDir     string
	origHomeDir string
}

func (s *ConfigSuite) SetupTest() {
	s.tempDir = s.T().TempDir()

	// Save and override HOME
	s.origHomeDir = os.Getenv("HOME")
	os.Setenv("HOME", s.tempDir)
}

func (s *ConfigSuite) TearDownTest() {
	os.Setenv("HOME", s.origHomeDir)
	os.Unsetenv("VIBEFLO_API_URL")
	os.Unsetenv("VIBEFLO_DEBUG")
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

// TestDefault tests default configuration values.
func (s *ConfigSuite) TestDefault() {
	cfg := Default()

	s.Equal(30*time.Second, cfg.RequestTimeout)
	s.Equal(5*time.Second, cfg.RefreshMinInterval)
	s.Equal(4, cfg.MaxConns)
	s.Empty(cfg.APIURL)
	s.False(cfg.Production)
	s.False(cfg.Debug)
}

// TestDataDir tests data directory path.
func (s *ConfigSuite) TestDataDir() {
	dir := DataDir()
	s.Contains(dir, ".vibeflo")
}

// TestDBPath tests database path.
func (s *ConfigSuite) TestDBPath() {
	path := Default().DBPath()
	s.Contains(path, "vibeflo.db")
}

// TestEnsureDataDir tests data directory creation.
func (s *ConfigSuite) TestEnsureDataDir() {
	s.NoError(EnsureDataDir())

	info, err := os.Stat(DataDir())
	s.Require().NoError(err)
	s.True(info.IsDir())
}

// TestLoad_MissingFile tests that a missing file yields defaults.
func (s *ConfigSuite) TestLoad_MissingFile() {
	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal(Default().RequestTimeout, cfg.RequestTimeout)
}

// TestLoadPath tests loading an explicit file with partial overrides.
func (s *ConfigSuite) TestLoadPath() {
	path := filepath.Join(s.tempDir, "config.yaml")
	content := "api_url: http://localhost:9999\nproduction: true\nrefresh_min_interval: 10s\n"
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadPath(path)
	s.Require().NoError(err)
	s.Equal("http://localhost:9999", cfg.APIURL)
	s.True(cfg.Production)
	s.Equal(10*time.Second, cfg.RefreshMinInterval)
	// Unspecified fields keep defaults.
	s.Equal(30*time.Second, cfg.RequestTimeout)
	s.Equal(4, cfg.MaxConns)
}

// TestLoad_EnvOverride tests VIBEFLO_API_URL precedence.
func (s *ConfigSuite) TestLoad_EnvOverride() {
	path := filepath.Join(s.tempDir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("api_url: http://from-file\n"), 0o644))
	os.Setenv("VIBEFLO_API_URL", "http://from-env")

	cfg, err := LoadPath(path)
	s.Require().NoError(err)
	s.Equal("http://from-env", cfg.APIURL)
}

// TestLoad_Invalid tests that malformed YAML is an error.
func (s *ConfigSuite) TestLoad_Invalid() {
	path := filepath.Join(s.tempDir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("api_url: [broken\n"), 0o644))

	_, err := LoadPath(path)
	s.Error(err)
}

// TestWatcher tests change notification on config writes.
func (s *ConfigSuite) TestWatcher() {
	path := filepath.Join(s.tempDir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("api_url: http://before\n"), 0o644))

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	s.Require().NoError(err)
	s.Require().NoError(w.Start())
	defer w.Stop()

	s.Require().NoError(os.WriteFile(path, []byte("api_url: http://after\n"), 0o644))

	select {
	case cfg := <-changed:
		s.Equal("http://after", cfg.APIURL)
	case <-time.After(3 * time.Second):
		s.Fail("timed out waiting for config reload")
	}
}
