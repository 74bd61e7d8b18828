// Package config loads nfaudit.yaml and resolves CLI settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// Config represents the nfaudit configuration from nfaudit.yaml.
type Config struct {
	Database      DatabaseConfig `mapstructure:"database"`
	Tables        []string       `mapstructure:"tables"`
	ExcludeTables []string       `mapstructure:"exclude_tables"`
	Forms         []string       `mapstructure:"forms"`
	Workers       int            `mapstructure:"workers"`
	Limits        LimitsConfig   `mapstructure:"limits"`
	Output        OutputConfig   `mapstructure:"output"`
	Log           LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL    string `mapstructure:"url"`
	Schema string `mapstructure:"schema"`
}

// LimitsConfig bounds the combinatorial searches and the row capture.
type LimitsConfig struct {
	MaxLHS     int `mapstructure:"max_lhs"`
	MaxColumns int `mapstructure:"max_columns"`
	MaxRows    int `mapstructure:"max_rows"`
}

// OutputConfig selects the report renderer and destination.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
	Dir    string `mapstructure:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults. Flags are applied by the caller.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("NFAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.schema", "")

	v.SetDefault("tables", []string{})
	v.SetDefault("exclude_tables", []string{})
	v.SetDefault("forms", []string{})
	v.SetDefault("workers", 1)

	v.SetDefault("limits.max_lhs", 4)
	v.SetDefault("limits.max_columns", 24)
	v.SetDefault("limits.max_rows", 0)

	v.SetDefault("output.format", "text")
	v.SetDefault("output.file", "")
	v.SetDefault("output.dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for nfaudit.yaml or nfaudit.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"nfaudit.yaml", "nfaudit.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Validate reports settings that cannot be used together.
func (c *Config) Validate() error {
	if c.Output.Dir != "" && c.Output.File != "" {
		return fmt.Errorf("cannot use both output.dir and output.file")
	}
	switch c.Output.Format {
	case "text", "markdown":
	default:
		return fmt.Errorf("invalid output format: %s (must be 'text' or 'markdown')", c.Output.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Limits.MaxLHS < 0 || c.Limits.MaxColumns < 0 || c.Limits.MaxRows < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}
