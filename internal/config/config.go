// Package config loads gofifo settings from the environment, an optional
// config file and command-line flags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config is the runtime configuration for the CLI.
type Config struct {
	// Size is the cache capacity. Validation happens in cache.New.
	Size     int    `env:"GOFIFO_SIZE" envDefault:"5"`
	LogLevel string `env:"GOFIFO_LOG_LEVEL" envDefault:"info"`
}

// Load reads the environment, then overlays any keys set in v.
//
// Precedence, lowest first: defaults, environment, config file, flags. The
// last two are resolved by viper. v may be nil.
func Load(v *viper.Viper) (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("error parsing environment: %w", err)
	}
	if v == nil {
		return cfg, nil
	}

	if v.IsSet("size") {
		cfg.Size = v.GetInt("size")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
