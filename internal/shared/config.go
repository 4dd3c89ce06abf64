package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Library  LibraryConfig  `toml:"library"`
	Auth     AuthConfig     `toml:"auth"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LibraryConfig contains song library defaults.
type LibraryConfig struct {
	DefaultDuration string  `toml:"default_duration"`
	ThumbnailBase   string  `toml:"thumbnail_base"`
	WriteRateLimit  float64 `toml:"write_rate_limit"`
}

// AuthConfig contains session settings.
type AuthConfig struct {
	SessionTTLHours int `toml:"session_ttl_hours"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory, when present, overrides the database
// path via KARALIB_DB_PATH.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&config)
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	applyEnvOverrides(&config)
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvOverrides loads a .env file if present and applies recognized variables.
func applyEnvOverrides(config *Config) {
	_ = godotenv.Load()

	if path := os.Getenv("KARALIB_DB_PATH"); path != "" {
		config.Database.Path = path
	}
}
