// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for graphdoc.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the graphdoc configuration.
type Config struct {
	// Listen is the address the HTTP server binds to
	Listen string `mapstructure:"listen" yaml:"listen" json:"listen"`

	// Mount is the path the document is served under
	Mount string `mapstructure:"mount" yaml:"mount" json:"mount"`

	// PathPrefix is prepended verbatim to every route in the served document
	PathPrefix string `mapstructure:"pathPrefix" yaml:"pathPrefix" json:"pathPrefix"`

	// MandatoryParams is the list of required query parameters injected on
	// the graph route
	MandatoryParams []string `mapstructure:"mandatoryParams" yaml:"mandatoryParams" json:"mandatoryParams"`

	// Format is the output format for print and check (json, yaml)
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Output is the output file path for print (empty means stdout)
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Doc contains document metadata overrides
	Doc DocConfig `mapstructure:"doc" yaml:"doc" json:"doc"`

	// Server contains HTTP server tuning
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Metrics contains metrics endpoint configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// DocConfig contains optional overrides for the served document's metadata.
// Empty fields leave the template's own metadata in place.
type DocConfig struct {
	// Title overrides the document title
	Title string `mapstructure:"title" yaml:"title" json:"title"`

	// Description overrides the document description
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// ServerConfig contains HTTP server tuning. All values are in seconds.
type ServerConfig struct {
	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout int `mapstructure:"readTimeout" yaml:"readTimeout" json:"readTimeout"`

	// WriteTimeout is the maximum duration for writing a response
	WriteTimeout int `mapstructure:"writeTimeout" yaml:"writeTimeout" json:"writeTimeout"`

	// IdleTimeout is the maximum duration to keep idle connections open
	IdleTimeout int `mapstructure:"idleTimeout" yaml:"idleTimeout" json:"idleTimeout"`

	// ShutdownTimeout is the grace period for in-flight requests on shutdown
	ShutdownTimeout int `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout" json:"shutdownTimeout"`
}

// MetricsConfig contains metrics endpoint configuration.
type MetricsConfig struct {
	// Enabled determines whether /metrics is served
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`

	// Match is a glob pattern limiting which changed files trigger a re-check
	Match string `mapstructure:"match" yaml:"match" json:"match"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"graphdoc.yaml",
	"graphdoc.json",
	".graphdoc.yaml",
	".graphdoc.json",
}

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"json",
	"yaml",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		Mount:           "/openapi",
		PathPrefix:      "",
		MandatoryParams: []string{},
		Format:          "json",
		Server: ServerConfig{
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. graphdoc.yaml
// 2. graphdoc.json
// 3. .graphdoc.yaml
// 4. .graphdoc.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if configPath != "" {
		// Use the provided config path
		v.SetConfigFile(configPath)
	} else {
		// Search for config files in order
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			// Return default config if no file found
			return Default(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("mount", "/openapi")
	v.SetDefault("pathPrefix", "")
	v.SetDefault("mandatoryParams", []string{})
	v.SetDefault("format", "json")
	v.SetDefault("output", "")
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.shutdownTimeout", 10)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("watch.debounce", 500)
	v.SetDefault("watch.match", "")
}

// Validate validates the configuration.
//
// The path prefix is deliberately not validated: it is concatenated to route
// keys exactly as given, and an unusual prefix is still a serveable one.
func (c *Config) Validate() error {
	var errs ValidationErrors

	// Validate listen address
	if c.Listen == "" {
		errs = append(errs, ValidationError{
			Field:   "listen",
			Message: "listen address is required",
		})
	}

	// Validate mount path
	if c.Mount == "" {
		errs = append(errs, ValidationError{
			Field:   "mount",
			Message: "mount path is required",
		})
	} else if !strings.HasPrefix(c.Mount, "/") {
		errs = append(errs, ValidationError{
			Field:   "mount",
			Message: fmt.Sprintf("mount path %q must begin with /", c.Mount),
		})
	}

	// Validate mandatory parameter names
	for i, name := range c.MandatoryParams {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("mandatoryParams[%d]", i),
				Message: "parameter name must not be empty",
			})
		}
	}

	// Validate format
	if c.Format != "" && !contains(supportedFormats, c.Format) {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	// Validate server timeouts
	for _, timeout := range []struct {
		field string
		value int
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.idleTimeout", c.Server.IdleTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
	} {
		if timeout.value < 0 {
			errs = append(errs, ValidationError{
				Field:   timeout.field,
				Message: "timeout must be non-negative",
			})
		}
	}

	// Validate watch debounce
	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the loaded config file, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
