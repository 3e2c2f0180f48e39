// Package config loads the command line configuration from file, environment
// (SEARCHFORM_ prefix) and flags via viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-searchform/pkg/lookup"
)

// EnvPrefix prefixes environment overrides, e.g. SEARCHFORM_LOGGING_LEVEL.
const EnvPrefix = "SEARCHFORM"

type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Output   OutputConfig   `mapstructure:"output"`
}

type RegistryConfig struct {
	// Path is a registry file or directory; empty selects the built-in host
	// search registry.
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LookupConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	Concurrency int           `mapstructure:"concurrency"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

type OutputConfig struct {
	// Format is "query" or "json".
	Format string `mapstructure:"format"`
}

// LookupBreaker converts the breaker section into lookup settings.
func (c LookupConfig) LookupBreaker() lookup.BreakerConfig {
	return lookup.BreakerConfig{
		Enabled:          c.Breaker.Enabled,
		FailureThreshold: c.Breaker.FailureThreshold,
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         c.Breaker.Interval,
		Timeout:          c.Breaker.Timeout,
	}
}

// LoadConfig reads configuration into v. When configPath is empty the
// default locations are searched and a missing file is not an error.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("searchform")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.searchform/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	breaker := lookup.DefaultBreakerConfig()

	v.SetDefault("registry.path", "")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("lookup.ttl", "1m")
	v.SetDefault("lookup.concurrency", 4)
	v.SetDefault("lookup.breaker.enabled", breaker.Enabled)
	v.SetDefault("lookup.breaker.failure_threshold", breaker.FailureThreshold)
	v.SetDefault("lookup.breaker.max_requests", breaker.MaxRequests)
	v.SetDefault("lookup.breaker.interval", breaker.Interval)
	v.SetDefault("lookup.breaker.timeout", breaker.Timeout)

	v.SetDefault("output.format", "query")
}

func validateConfig(cfg *Config) error {
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}
	switch cfg.Output.Format {
	case "query", "json":
	default:
		return fmt.Errorf("output.format must be query or json, got %q", cfg.Output.Format)
	}
	if cfg.Lookup.TTL < 0 {
		return errors.New("lookup.ttl must not be negative")
	}
	if cfg.Lookup.Concurrency < 0 {
		return errors.New("lookup.concurrency must not be negative")
	}
	if cfg.Lookup.Breaker.Enabled && cfg.Lookup.Breaker.FailureThreshold == 0 {
		return errors.New("lookup.breaker.failure_threshold must be positive when the breaker is enabled")
	}
	return nil
}
