// Package config holds the explicitly constructed process configuration.
// There are no ambient singletons: Load builds one Config at startup and
// the result is passed to every component that needs it.
//
// Precedence: defaults, then the optional parsesmith.yaml in the
// workspace, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is reported when no API key is configured. It is
// fatal at startup, before any fixture resolution or attempt runs.
var ErrMissingCredential = errors.New("GROQ_API_KEY missing: set it in the environment or in parsesmith.yaml")

// ConfigFileName is the optional per-workspace configuration file.
const ConfigFileName = "parsesmith.yaml"

// Config is the full process configuration.
type Config struct {
	// Generation service.
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`

	// Workspace layout.
	DataDir    string `yaml:"data_dir"`
	ParsersDir string `yaml:"parsers_dir"`
	LogPath    string `yaml:"log_path"`

	// Retry loop.
	MaxAttempts int `yaml:"max_attempts"`

	// Post-success regression battery. Empty means the default battery.
	BatteryPath string `yaml:"battery_path"`
}

// Default returns the baseline configuration for a workspace root.
func Default(workspace string) Config {
	return Config{
		Model:       "openai/gpt-oss-120b",
		BaseURL:     "https://api.groq.com/openai/v1",
		Temperature: 0.2,
		TimeoutSec:  120,
		DataDir:     filepath.Join(workspace, "data"),
		ParsersDir:  filepath.Join(workspace, "parsers"),
		LogPath:     filepath.Join(workspace, "parsesmith.log"),
		MaxAttempts: 3,
	}
}

// Load builds the configuration for a workspace: defaults, overlaid with
// parsesmith.yaml when present, overlaid with environment variables.
func Load(workspace string) (Config, error) {
	cfg := Default(workspace)

	path := filepath.Join(workspace, ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PARSESMITH_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PARSESMITH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
}

// Validate reports configuration states that must abort the run before
// any attempt is made.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingCredential
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
