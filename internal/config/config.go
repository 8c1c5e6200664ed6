package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the settings read from the environment. Command line flags
// override them in main.
type Config struct {
	RevealDelay time.Duration `env:"PAIRS_REVEAL_DELAY" envDefault:"800ms"`
	Level       string        `env:"PAIRS_LEVEL"`
	Seed        uint64        `env:"PAIRS_SEED"`
	ScoresPath  string        `env:"PAIRS_SCORES_PATH"`
	ThemePaths  []string      `env:"PAIRS_THEME" envSeparator:","`
	LogFile     string        `env:"PAIRS_LOG_FILE"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment and parses Config from it. Missing dotenv files are
// ignored; variables already set win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that parse but make no sense.
func (c Config) Validate() error {
	if c.RevealDelay < 0 {
		return fmt.Errorf("reveal delay must not be negative, got %s", c.RevealDelay)
	}
	if _, err := c.ZerologLevel(); err != nil {
		return err
	}
	return nil
}

// ZerologLevel parses LogLevel.
func (c Config) ZerologLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
