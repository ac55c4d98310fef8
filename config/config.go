// Package config loads store and logging settings from YAML.
//
//	log:
//	  level: debug
//	  encoding: console
//	store:
//	  max_dispatch_depth: 256
//	workers:
//	  num_workers: 4
//
// Missing or non-positive values fall back to their defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel         = "info"
	DefaultLogEncoding      = "json"
	DefaultMaxDispatchDepth = 1024
	DefaultNumWorkers       = 1
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log     Log     `yaml:"log"`
	Store   Store   `yaml:"store"`
	Workers Workers `yaml:"workers"`
}

type Log struct {
	Level       string `yaml:"level"`
	Encoding    string `yaml:"encoding"` // json | console
	Development bool   `yaml:"development"`
}

type Store struct {
	MaxDispatchDepth int `yaml:"max_dispatch_depth"`
}

type Workers struct {
	NumWorkers int `yaml:"num_workers"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{}.normalize()
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings no default can repair.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log encoding %q must be json or console", ErrInvalidConfig, c.Log.Encoding)
	}
	return nil
}

func (c Config) normalize() Config {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = DefaultLogEncoding
	}
	if c.Store.MaxDispatchDepth <= 0 {
		c.Store.MaxDispatchDepth = DefaultMaxDispatchDepth
	}
	if c.Workers.NumWorkers <= 0 {
		c.Workers.NumWorkers = DefaultNumWorkers
	}
	return c
}
