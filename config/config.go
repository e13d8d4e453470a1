// Package config loads the settings of the profiling harnesses from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Prefix is prepended to every variable name.
const Prefix = "SOAECS_"

type Config struct {
	// Rounds is how many fresh worlds the harness builds.
	Rounds int `env:"ROUNDS" envDefault:"50"`

	// Iterations is the number of create/assign/destroy cycles per round.
	Iterations int `env:"ITERATIONS" envDefault:"1000"`

	// Entities is the number of entities created per iteration.
	Entities int `env:"ENTITIES" envDefault:"1000"`

	// MinFreedBuildup is the allocator's slot reuse delay.
	MinFreedBuildup int `env:"MIN_FREED_BUILDUP" envDefault:"1024"`

	// InitialCapacity is the number of rows the column stores reserve up front.
	InitialCapacity int `env:"INITIAL_CAPACITY" envDefault:"32"`

	// Profile selects the pprof mode ("mem", "cpu" or "none").
	Profile string `env:"PROFILE" envDefault:"mem"`

	// ProfilePath is the directory profiles are written to.
	ProfilePath string `env:"PROFILE_PATH" envDefault:"."`

	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the SOAECS_* variables and validates them.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return cfg, eris.Wrap(err, "failed to parse config")
	}
	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate config")
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Rounds <= 0 || cfg.Iterations <= 0 || cfg.Entities <= 0 {
		return eris.Errorf("rounds, iterations and entities must be positive, got %d, %d, %d",
			cfg.Rounds, cfg.Iterations, cfg.Entities)
	}
	if cfg.MinFreedBuildup < 0 {
		return eris.Errorf("min freed buildup must not be negative, got %d", cfg.MinFreedBuildup)
	}
	if cfg.InitialCapacity <= 0 {
		return eris.Errorf("initial capacity must be positive, got %d", cfg.InitialCapacity)
	}
	switch cfg.Profile {
	case "mem", "cpu", "none":
	default:
		return eris.Errorf("invalid profile mode: %s (must be 'mem', 'cpu' or 'none')", cfg.Profile)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return eris.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", cfg.LogLevel)
	}
	return nil
}

// Logger returns a console logger at the configured level.
func (cfg *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
