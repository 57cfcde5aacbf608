// Package config loads boundary settings from YAML.
//
//	framework: XGX
//	root: /opt/xgx            # optional; defaults to the framework sources
//	include: [config, experimental, testutil]
//	logging:
//	  level: debug
//	  format: console
//	metrics:
//	  enabled: true
package config

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	xgxtrace "github.com/xgx-io/xgx-trace"
	"github.com/xgx-io/xgx-trace/internal/logging"
)

// Config holds boundary settings.
type Config struct {
	// Framework is the name in the traceback header.
	Framework string `yaml:"framework"`

	// Root is the framework installation root. Empty means the directory of
	// the framework sources.
	Root string `yaml:"root"`

	// Include lists subpaths of Root whose frames are shown. A nil list means
	// the defaults; an empty list hides everything under Root.
	Include []string `yaml:"include"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the boundary logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// MetricsConfig configures failure counters.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the settings a Boundary has without options.
func DefaultConfig() *Config {
	return &Config{
		Framework: xgxtrace.DefaultFramework,
		Root:      xgxtrace.DefaultRoot(),
		Include:   []string{"config", "experimental", "testutil"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads and parses a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	include := cfg.Include
	cfg.Include = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if cfg.Include == nil {
		cfg.Include = include
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Framework == "" {
		return fmt.Errorf("framework name is empty")
	}
	for _, p := range c.Include {
		if p == "" {
			return fmt.Errorf("include entry is empty")
		}
	}
	return nil
}

// PathSet returns the PathSet the settings describe.
func (c *Config) PathSet() xgxtrace.PathSet {
	root := c.Root
	if root == "" {
		root = xgxtrace.DefaultRoot()
	}
	return xgxtrace.NewPathSet(root, c.Include...)
}

// Logger builds the logger the settings describe.
func (c *Config) Logger() (*zap.Logger, error) {
	return logging.New(c.Logging.Level, c.Logging.Format)
}

// Boundary builds a Boundary from the settings. Failure counters are
// registered with reg when metrics are enabled; nil means the default
// registerer. A nil logger is built from the logging settings. Extra options
// apply last.
func (c *Config) Boundary(reg prometheus.Registerer, logger *zap.Logger, opts ...xgxtrace.Option) (*xgxtrace.Boundary, error) {
	if logger == nil {
		var err error
		if logger, err = c.Logger(); err != nil {
			return nil, err
		}
	}
	base := []xgxtrace.Option{
		xgxtrace.WithFramework(c.Framework),
		xgxtrace.WithPathSet(c.PathSet()),
		xgxtrace.WithLogger(logger),
	}
	if c.Metrics.Enabled {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		base = append(base, xgxtrace.WithMetrics(reg))
	}
	return xgxtrace.New(append(base, opts...)...), nil
}
