// Package config loads the CLI configuration: defaults, then a YAML file,
// then LINKORA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-linkora/cache"
	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/remote/grpcremote"
)

// Environment overrides.
const (
	EnvEndpoint = "LINKORA_ENDPOINT"
	EnvToken    = "LINKORA_TOKEN"
	EnvCaller   = "LINKORA_CALLER"
	EnvLogLevel = "LINKORA_LOG"
)

var logLevels = []interface{}{"trace", "debug", "info", "warn", "error", "disabled"}

// Config is the CLI configuration.
type Config struct {
	Endpoint    string                   `yaml:"endpoint"`
	AccessToken string                   `yaml:"access_token"`
	Caller      string                   `yaml:"caller"`
	LogLevel    string                   `yaml:"log_level"`
	Timeout     time.Duration            `yaml:"timeout"`
	Cache       cache.Config             `yaml:"cache"`
	Breaker     grpcremote.BreakerConfig `yaml:"breaker"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	remote := grpcremote.DefaultConfig()
	return Config{
		Endpoint: remote.Endpoint,
		LogLevel: "warn",
		Timeout:  remote.Timeout,
		Cache:    cache.DefaultConfig(),
		Breaker:  remote.Breaker,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv(EnvCaller); v != "" {
		cfg.Caller = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the configuration, including the cache section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.LogLevel, validation.In(logLevels...)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Caller, validation.By(func(value interface{}) error {
			_, err := c.CallerID()
			return err
		})),
	)
	if err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// CallerID parses Caller. An empty caller is the anonymous identity.
func (c Config) CallerID() (identity.ID, error) {
	id, err := identity.Parse(c.Caller)
	if errors.Is(err, identity.ErrEmpty) {
		return identity.ID{}, nil
	}
	return id, err
}

// Level returns the zerolog level for LogLevel, defaulting to warn.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return level
}

// Remote returns the transport configuration.
func (c Config) Remote() grpcremote.Config {
	return grpcremote.Config{
		Endpoint:    c.Endpoint,
		AccessToken: c.AccessToken,
		Timeout:     c.Timeout,
		Breaker:     c.Breaker,
	}
}
