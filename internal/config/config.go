// Package config holds the fundwise client configuration: where the
// recommendation service lives and where client-side state (session token,
// logs) is kept.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all fundwise configuration.
type Config struct {
	// ServerURL is the base URL of the recommendation service.
	ServerURL string `yaml:"server_url"`

	// StateDir is the directory for client-side state (session token, logs).
	StateDir string `yaml:"state_dir"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration. The server default
// matches the service's development address.
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8000",
		StateDir:  defaultStateDir(),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fundwise"
	}
	return filepath.Join(home, ".fundwise")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(defaultStateDir(), "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override file values either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("FUNDWISE_SERVER"); url != "" {
		c.ServerURL = url
	}
	if dir := os.Getenv("FUNDWISE_STATE_DIR"); dir != "" {
		c.StateDir = dir
	}
}

// TokenPath returns the session token file location.
func (c *Config) TokenPath() string {
	return filepath.Join(c.StateDir, "session.json")
}

// LogDir returns the directory log files are written to.
func (c *Config) LogDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
