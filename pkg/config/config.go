package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/yairfalse/sampo/pkg/types"
)

// Config represents the complete sampo configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Log       LogConfig       `mapstructure:"log"`
}

// OutputConfig contains report rendering configuration
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	File    string `mapstructure:"file"`
	NoColor bool   `mapstructure:"no_color"`
}

// AnalysisConfig contains analyzer and aggregator configuration
type AnalysisConfig struct {
	MinSeverity string `mapstructure:"min_severity"`
	Workers     int    `mapstructure:"workers"`
}

// ArtifactsConfig contains artifact discovery configuration
type ArtifactsConfig struct {
	Root string `mapstructure:"root"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	config := DefaultConfig()

	// Set configuration file paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add configuration paths
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".sampo"))
	}
	viper.AddConfigPath(".")

	// Set environment variable support
	viper.SetEnvPrefix("SAMPO")
	viper.AutomaticEnv()

	// Map environment variables to config keys
	viper.BindEnv("log.level", "SAMPO_LOG_LEVEL", "LOG_LEVEL")
	viper.BindEnv("output.no_color", "SAMPO_NO_COLOR")
	viper.BindEnv("artifacts.root", "SAMPO_ARTIFACTS_ROOT")

	// Read configuration file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we'll use defaults
	}

	// Unmarshal into our config struct
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "markdown", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format: %s", c.Output.Format)
	}

	if types.ParseSeverity(c.Analysis.MinSeverity) == types.SeverityUnknown {
		return fmt.Errorf("unknown severity threshold: %s", c.Analysis.MinSeverity)
	}

	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis workers must be positive")
	}

	if c.Artifacts.Root == "" {
		return fmt.Errorf("artifacts root is required")
	}

	return nil
}

// MinSeverity returns the configured severity threshold as a typed value
func (c *Config) MinSeverity() types.Severity {
	return types.ParseSeverity(c.Analysis.MinSeverity)
}

// ExpandPaths expands home directory paths
func (c *Config) ExpandPaths() error {
	var err error
	c.Artifacts.Root, err = expandPath(c.Artifacts.Root)
	if err != nil {
		return fmt.Errorf("failed to expand artifacts root: %w", err)
	}

	if c.Output.File != "" {
		c.Output.File, err = expandPath(c.Output.File)
		if err != nil {
			return fmt.Errorf("failed to expand output file path: %w", err)
		}
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path, err
	}

	if len(path) == 1 {
		return home, nil
	}

	return filepath.Join(home, path[1:]), nil
}
