// Package config defines the smartroute configuration schema and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sherolroses/Transport/pkg/congestion"
)

// Congestion model names.
const (
	ModelTimeOfDay = "time_of_day"
	ModelProfile   = "profile"
	ModelRules     = "rules"
)

// Config is the root configuration, read from ~/.smartroute.yaml and
// SMARTROUTE_* environment variables.
type Config struct {
	Seed       SeedConfig       `mapstructure:"seed"`
	Congestion CongestionConfig `mapstructure:"congestion"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type SeedConfig struct {
	// Location is a local path or s3://bucket/key of a YAML or HCL seed.
	// Empty means the built-in sample network.
	Location string `mapstructure:"location"`
	Disabled bool   `mapstructure:"disabled"`
}

type CongestionConfig struct {
	// Model is one of time_of_day, profile or rules.
	Model   string             `mapstructure:"model"`
	Profile congestion.Profile `mapstructure:"profile"`
	Rules   []congestion.Rule  `mapstructure:"rules"`
	// Default applies to the rules model when no rule matches.
	Default float64 `mapstructure:"default"`
}

type RoutingConfig struct {
	CacheSize int `mapstructure:"cache_size"`
	Workers   int `mapstructure:"workers"`
}

type StorageConfig struct {
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type TelemetryConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Disabled bool   `mapstructure:"disabled"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Congestion: CongestionConfig{
			Model:   ModelTimeOfDay,
			Default: congestion.Free,
		},
		Routing: RoutingConfig{
			CacheSize: 256,
			Workers:   4,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// SlogLevel parses Log.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Congestion.Model {
	case ModelTimeOfDay:
	case ModelProfile:
		if err := c.Congestion.Profile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("congestion.profile: %w", err))
		}
	case ModelRules:
		if len(c.Congestion.Rules) == 0 {
			errs = append(errs, errors.New("congestion.rules: at least one rule is required"))
		}
		if c.Congestion.Default <= 0 {
			errs = append(errs, fmt.Errorf("congestion.default %v must be positive", c.Congestion.Default))
		}
	default:
		errs = append(errs, fmt.Errorf("congestion.model %q is not one of %s, %s, %s",
			c.Congestion.Model, ModelTimeOfDay, ModelProfile, ModelRules))
	}

	if c.Routing.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("routing.cache_size %d must not be negative", c.Routing.CacheSize))
	}
	if c.Routing.Workers < 1 {
		errs = append(errs, fmt.Errorf("routing.workers %d must be at least 1", c.Routing.Workers))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
