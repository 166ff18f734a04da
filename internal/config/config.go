// Package config loads command configuration from the environment and
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is shared by every fa subcommand. Flags registered by a command
// override the environment values loaded first.
type Config struct {
	LogLevel     string `env:"FA_LOG_LEVEL" envDefault:"info"`
	LogColor     bool   `env:"FA_LOG_COLOR" envDefault:"false"`
	CachePath    string `env:"FA_CACHE_PATH"`
	Workers      int    `env:"FA_WORKERS" envDefault:"4"`
	OTelEndpoint string `env:"FA_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"FA_OTEL_ENABLED" envDefault:"true"`
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Validate reports values no command can run with.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	level := strings.ToLower(c.LogLevel)
	for _, l := range logLevels {
		if l == level {
			return nil
		}
	}
	return fmt.Errorf("unknown log level %q (want one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
}

// TracingEnabled is true when spans should be exported.
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && strings.TrimSpace(c.OTelEndpoint) != ""
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// RegisterFlags binds the common flags to cfg. Call it after ParseEnv so the
// environment supplies the defaults.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error (default: FA_LOG_LEVEL or info)")
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "sqlite DFA cache path, empty disables the cache (default: FA_CACHE_PATH)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "batch conversion concurrency (default: FA_WORKERS or 4)")
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs(cfg *Config, fs *flag.FlagSet, args []string) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := ParseEnv(cfg); err != nil {
		return err
	}
	RegisterFlags(fs, cfg)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
