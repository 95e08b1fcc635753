package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// ExtractConfig describes a single batch run
type ExtractConfig struct {
	SourceDir string `yaml:"sourceDir" validate:"required"`
	OutputCSV string `yaml:"outputCsv" validate:"required"`
	Workers   int    `yaml:"workers" validate:"min=0"`
	TryHarder bool   `yaml:"tryHarder"`
	LogLevel  string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
}

// LoadConfig loads configuration from the specified YAML file.
// Source and output may be left empty to be supplied on the command line,
// so the result is not validated here.
func LoadConfig(configPath string) (*ExtractConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ExtractConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	return &config, nil
}

// Validate checks that the configuration is complete
func (c *ExtractConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c *ExtractConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
