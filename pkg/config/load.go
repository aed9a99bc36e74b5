package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sherolroses/Transport/pkg/congestion"
)

// EnvPrefix is prepended to every environment override, e.g.
// SMARTROUTE_ROUTING_CACHE_SIZE.
const EnvPrefix = "SMARTROUTE"

// SetDefaults registers every scalar key so that environment overrides are
// seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("seed.location", d.Seed.Location)
	v.SetDefault("seed.disabled", d.Seed.Disabled)
	v.SetDefault("congestion.model", d.Congestion.Model)
	v.SetDefault("congestion.default", d.Congestion.Default)
	v.SetDefault("routing.cache_size", d.Routing.CacheSize)
	v.SetDefault("routing.workers", d.Routing.Workers)
	v.SetDefault("storage.s3_endpoint", d.Storage.S3Endpoint)
	v.SetDefault("storage.s3_path_style", d.Storage.S3PathStyle)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.disabled", d.Telemetry.Disabled)
}

// NewViper returns a viper instance wired for smartroute. A missing config
// file is not an error.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		return v, nil
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", file, err)
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Congestion.Model == ModelProfile && len(cfg.Congestion.Profile.Bands) == 0 {
		cfg.Congestion.Profile = congestion.DefaultProfile()
	}
	if cfg.Congestion.Profile.Default == 0 {
		cfg.Congestion.Profile.Default = congestion.Free
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
