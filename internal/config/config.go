// Package config loads runtime settings from the environment.
//
// An optional .env file in the working directory is read first (values already
// present in the environment win), then the environment is parsed into Config
// using struct tags.
package config

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/aretw0/tally/internal/logging"
)

// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
var ErrParsingConfig = errors.New("failed to parse environment variables into config")

// DebugFlag is the feature flag that turns on the on-screen debug indicator.
const DebugFlag = "debug"

// Config holds the environment-driven settings. None of them affect computed results.
type Config struct {
	LogLevel           string   `env:"TALLY_LOG_LEVEL" envDefault:"info"`
	FeatureFlags       []string `env:"TALLY_FEATURE_FLAGS" envSeparator:","`
	ExperimentsEnabled bool     `env:"TALLY_EXPERIMENTS_ENABLED"`
	HealthcheckPath    string   `env:"TALLY_HEALTHCHECK_PATH"`
	SessionDir         string   `env:"TALLY_SESSION_DIR" envDefault:".tally/sessions"`
	RedisURL           string   `env:"TALLY_REDIS_URL"`
	MaxInputSize       int      `env:"TALLY_MAX_INPUT_SIZE" envDefault:"4096"`
}

var dotenvOnce sync.Once

// Load reads the optional .env file and parses the process environment.
func Load() (Config, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Verbose reports whether every transition should be traced.
func (c Config) Verbose() bool {
	return strings.EqualFold(strings.TrimSpace(c.LogLevel), logging.LevelVerbose)
}

// HasFlag reports whether a feature flag is enabled.
func (c Config) HasFlag(name string) bool {
	return slices.ContainsFunc(c.FeatureFlags, func(f string) bool {
		return strings.EqualFold(strings.TrimSpace(f), name)
	})
}

// DebugIndicator reports whether the debug indicator should be shown.
func (c Config) DebugIndicator() bool {
	return c.ExperimentsEnabled || c.HasFlag(DebugFlag)
}
