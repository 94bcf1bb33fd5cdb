// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all contactbus configuration.
type Config struct {
	Locale     string `yaml:"locale"`
	LocalesDir string `yaml:"locales_dir"` // Disk overrides for embedded locale files.
	UI         UI     `yaml:"ui"`
	Log        Log    `yaml:"log"`
}

// UI holds terminal display settings.
type UI struct {
	AltScreen bool `yaml:"alt_screen"`
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
	File  string `yaml:"file"`  // Empty disables logging; the TUI owns the terminal.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Locale:     "en",
		LocalesDir: ".contactbus/locales",
		UI: UI{
			AltScreen: true,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	layer, err := loadLayer(path)
	if err != nil {
		return nil, err
	}
	if layer != nil {
		cfg.merge(layer)
	}
	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Locale == "" {
		return errors.New("config: locale cannot be empty")
	}
	if strings.ContainsAny(c.Locale, `/\`) || c.Locale == "." || c.Locale == ".." {
		return fmt.Errorf("config: invalid locale %q", c.Locale)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTBUS_LOCALE, CONTACTBUS_LOCALES_DIR,
// CONTACTBUS_LOG_LEVEL, CONTACTBUS_LOG_FILE.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CONTACTBUS_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("CONTACTBUS_LOCALES_DIR"); v != "" {
		c.LocalesDir = v
	}
	if v := os.Getenv("CONTACTBUS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CONTACTBUS_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Locale     *string `yaml:"locale"`
	LocalesDir *string `yaml:"locales_dir"`
	UI         *rawUI  `yaml:"ui"`
	Log        *rawLog `yaml:"log"`
}

type rawUI struct {
	AltScreen *bool `yaml:"alt_screen"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Locale != nil {
		c.Locale = *layer.Locale
	}
	if layer.LocalesDir != nil {
		c.LocalesDir = *layer.LocalesDir
	}
	if layer.UI != nil {
		if layer.UI.AltScreen != nil {
			c.UI.AltScreen = *layer.UI.AltScreen
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
}
