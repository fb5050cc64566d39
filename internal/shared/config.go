package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// DatabaseURLEnv names the environment variable that overrides [DatabaseConfig.URL].
const DatabaseURLEnv = "DATABASE_URL"

// MaxAuditLimit caps the number of incomplete resources reported by a refresh run.
const MaxAuditLimit = 20

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Resources ResourcesConfig `toml:"resources"`
	Lenders   LendersConfig   `toml:"lenders"`
	Audit     AuditConfig     `toml:"audit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL          string `toml:"url"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ResourcesConfig contains settings for the resource refresher.
type ResourcesConfig struct {
	AuditLimit int `toml:"audit_limit"`
}

// LendersConfig contains settings for the lender importer.
type LendersConfig struct {
	Workbook  string `toml:"workbook"`
	Sheet     string `toml:"sheet"`
	BatchSize int    `toml:"batch_size"`
}

// AuditConfig toggles audit_logs entries for completed runs.
type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads the config file at path when it exists, falls back to defaults otherwise,
// and applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	config.ApplyEnv(os.LookupEnv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config values from the environment using the given lookup function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if url, ok := lookup(DatabaseURLEnv); ok && url != "" {
		c.Database.URL = url
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("%w: database url is empty (set %s)", ErrMissingConfig, DatabaseURLEnv)
	}
	if c.Lenders.BatchSize < 1 {
		return fmt.Errorf("%w: lenders.batch_size must be at least 1, got %d", ErrInvalidConfig, c.Lenders.BatchSize)
	}
	if c.Resources.AuditLimit < 1 || c.Resources.AuditLimit > MaxAuditLimit {
		return fmt.Errorf("%w: resources.audit_limit must be between 1 and %d, got %d",
			ErrInvalidConfig, MaxAuditLimit, c.Resources.AuditLimit)
	}
	if c.Lenders.Sheet == "" {
		return fmt.Errorf("%w: lenders.sheet is empty", ErrInvalidConfig)
	}
	return nil
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
