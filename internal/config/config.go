package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Coros  CorosConfig  `json:"coros"`
	HTTP   HTTPConfig   `json:"http"`
	Output OutputConfig `json:"output"`
	Log    LogConfig    `json:"log"`
}

// CorosConfig holds the Training Hub account credentials
type CorosConfig struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// OutputConfig holds output locations
type OutputConfig struct {
	ActivitiesPath string `json:"activities_path"`
	ExportDir      string `json:"export_dir"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			BaseURL:        "https://teamapi.coros.com",
			TimeoutSeconds: 10,
		},
		Output: OutputConfig{
			ActivitiesPath: "activities.json",
			ExportDir:      "exports",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration from path, or from
// ~/.coros-extract/config.json when path is empty
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.HTTP.BaseURL == "" {
		cfg.HTTP.BaseURL = defaults.HTTP.BaseURL
	}
	if cfg.HTTP.TimeoutSeconds == 0 {
		cfg.HTTP.TimeoutSeconds = defaults.HTTP.TimeoutSeconds
	}
	if cfg.Output.ActivitiesPath == "" {
		cfg.Output.ActivitiesPath = defaults.Output.ActivitiesPath
	}
	if cfg.Output.ExportDir == "" {
		cfg.Output.ExportDir = defaults.Output.ExportDir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.coros-extract/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Coros = CorosConfig{
		Account:  "YOUR_ACCOUNT",
		Password: "YOUR_PASSWORD",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Coros.Account == "" || c.Coros.Account == "YOUR_ACCOUNT" {
		return errors.New("coros.account is required - the email address or phone number of your Training Hub account")
	}
	if c.Coros.Password == "" || c.Coros.Password == "YOUR_PASSWORD" {
		return errors.New("coros.password is required")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format must be \"json\" or \"console\", got %q", c.Log.Format)
	}

	if c.HTTP.TimeoutSeconds < 0 {
		return fmt.Errorf("http.timeout_seconds must not be negative, got %d", c.HTTP.TimeoutSeconds)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".coros-extract", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".coros-extract"), nil
}
