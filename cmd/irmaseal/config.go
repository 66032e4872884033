package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/privacybydesign/irmaseal-go/pkg/irmaseal"
)

// Config holds the CLI's tunable defaults. It is optional: every field
// starts from defaultConfig(), and a field absent from the file keeps that
// default. There are no command-line flags for these fields; the file is
// their only source.
type Config struct {
	// Concurrency bounds how many files batch-seal encrypts at once.
	Concurrency int `yaml:"concurrency"`

	// LogLevel selects the slog level the CLI's logger is configured with:
	// one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{Concurrency: 4, LogLevel: "info"}
}

// Validate reports a ConstraintViolation-shaped error for a config value
// that cannot be acted on, before any sealing or unsealing begins.
func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", irmaseal.ErrConstraintViolation, c.Concurrency)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unrecognized log_level %q", irmaseal.ErrConstraintViolation, c.LogLevel)
	}
	return nil
}

// loadConfig reads and parses a YAML config file. A missing path is not an
// error; loadConfig returns defaultConfig() unchanged. The result is always
// Validate()-clean before it is returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
