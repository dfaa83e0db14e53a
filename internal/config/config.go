package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"go-browser-topsites/db"
	"go-browser-topsites/internal/browsers"
	"go-browser-topsites/internal/topsites"
)

/* --------------------------------- Config Defaults -------------------------------- */

const (
	defaultBrowser  = "firefox"
	defaultStrategy = topsites.StrategyHeuristic
	defaultDriver   = db.DriverSQLite3
	defaultLogLevel = "warn"
)

/* --------------------------------- Config Struct -------------------------------- */

// Config holds everything a run needs. Zero values are replaced by defaults.
type (
	Config struct {
		Browser string `yaml:"browser"`
		// Root overrides the platform profile root when set.
		Root string `yaml:"root"`
		// Top is the number of domains reported per profile.
		Top int `yaml:"top"`
		// Strategy selects how hostnames are reduced to domains:
		// "heuristic" or "publicsuffix".
		Strategy string `yaml:"strategy"`
		// Driver is the database/sql driver used to read history:
		// "sqlite3" (cgo) or "sqlite" (pure Go).
		Driver         string `yaml:"driver"`
		ProfilePattern string `yaml:"profile_pattern"`
		DataStoreFile  string `yaml:"data_store_file"`
		Parallel       bool   `yaml:"parallel"`

		Logger LoggerConfig `yaml:"logger"`
		Output OutputConfig `yaml:"output"`
	}
	LoggerConfig struct {
		// Level is one of "debug", "info", "warn", "error".
		Level string `yaml:"level"`
	}
	OutputConfig struct {
		JSON bool `yaml:"json"`
		// Color forces coloured output on or off. Unset means detect a terminal.
		Color *bool `yaml:"color"`
	}
)

// Default returns the configuration used when no file is given.
func Default() Config {
	c := Config{Top: topsites.DefaultTop}
	c.hydrateDefaults()
	return c
}

// LoadFromYAML reads a YAML configuration file over the defaults and
// validates the result. Keys present in the file are kept as written.
func LoadFromYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	c := Default()
	if err = yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	c.hydrateDefaults()
	return c, c.Validate()
}

/* --------------------------------- Config Private Helpers -------------------------------- */

// hydrateDefaults assigns default values to fields that are not set
func (c *Config) hydrateDefaults() {
	browser, _ := browsers.ConfigFor(defaultBrowser)

	if c.Browser == "" {
		c.Browser = defaultBrowser
	}
	if c.Strategy == "" {
		c.Strategy = defaultStrategy
	}
	if c.Driver == "" {
		c.Driver = defaultDriver
	}
	if c.ProfilePattern == "" {
		c.ProfilePattern = browser.ProfilePattern
	}
	if c.DataStoreFile == "" {
		c.DataStoreFile = browser.DataStoreFile
	}
	if c.Logger.Level == "" {
		c.Logger.Level = defaultLogLevel
	}
}

// Validate ensures the configuration is usable
func (c Config) Validate() error {
	if _, err := browsers.ConfigFor(c.Browser); err != nil {
		return err
	}
	if c.Top <= 0 {
		return fmt.Errorf("top must be positive, got %d", c.Top)
	}
	if _, err := topsites.StrategyByName(c.Strategy); err != nil {
		return err
	}
	if err := db.ValidateDriver(c.Driver); err != nil {
		return err
	}
	if _, err := regexp.Compile(c.ProfilePattern); err != nil {
		return fmt.Errorf("invalid profile_pattern %q: %w", c.ProfilePattern, err)
	}
	if strings.ContainsAny(c.DataStoreFile, `/\`) {
		return fmt.Errorf("data_store_file must be a file name, got %q", c.DataStoreFile)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}
}
