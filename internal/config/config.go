// Package config loads the minsky server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/minsky/internal/dto"
	"github.com/aretw0/minsky/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the server configuration. Zero values are replaced by Default().
type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Fuel     int         `mapstructure:"fuel"`
	HTTP     HTTPConfig  `mapstructure:"http"`
	Store    StoreConfig `mapstructure:"store"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	Kind  string      `mapstructure:"kind"`
	Path  string      `mapstructure:"path"`
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: logging.LevelInfo,
		Fuel:     1_000_000,
		HTTP:     HTTPConfig{Addr: ":8080"},
		Store: StoreConfig{
			Kind: StoreMemory,
			Path: ".minsky/programs",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "minsky:program:",
			},
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("invalid config yaml: %w", err)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			dto.IntegerHook(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields and bounds.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Fuel <= 0 {
		return fmt.Errorf("invalid config: fuel must be positive, got %d", c.Fuel)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid config: unknown store kind %q", c.Store.Kind)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("invalid config: negative redis ttl %s", c.Store.Redis.TTL)
	}
	return nil
}
