// Package config provides configuration loading for the flexmsg command.
//
// Configuration is loaded from a single YAML file named by the --config flag
// or the FLEXMSG_CONFIG environment variable. There is no automatic
// discovery. Values not set in the file keep their defaults from Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "FLEXMSG_CONFIG"

// Config is the configuration of the flexmsg command.
type Config struct {
	// Format selects the output sink: text, json, yaml or cbor.
	Format string `yaml:"format"`

	// Precision is the number of fractional digits used for floats.
	Precision int `yaml:"precision"`

	// Strategy selects which sample instances to render: layout, tagged
	// or both.
	Strategy string `yaml:"strategy"`

	// Strict makes decoding reject unknown wire fields.
	Strict bool `yaml:"strict"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Color styles text output headers. auto enables it on terminals.
	Color string `yaml:"color"`
}

var (
	validFormats    = map[string]struct{}{"text": {}, "json": {}, "yaml": {}, "cbor": {}}
	validStrategies = map[string]struct{}{"layout": {}, "tagged": {}, "both": {}}
	validColors     = map[string]struct{}{"auto": {}, "always": {}, "never": {}}
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Format:    "text",
		Precision: 6,
		Strategy:  "layout",
		LogLevel:  "info",
		Color:     "auto",
	}
}

// Load reads the config file at path. An empty path falls back to the
// FLEXMSG_CONFIG environment variable, and to Default when that is unset too.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(content))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of Default and validates it.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	if _, ok := validFormats[c.Format]; !ok {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if _, ok := validStrategies[c.Strategy]; !ok {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if _, ok := validColors[c.Color]; !ok {
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	if c.Precision < 0 || c.Precision > 17 {
		return fmt.Errorf("precision %d out of range [0, 17]", c.Precision)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
