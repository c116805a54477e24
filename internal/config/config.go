// Package config loads workboard settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// Debug forces LogLevel to debug.
	Debug    bool      `env:"DEBUG" envDefault:"false"`
	LogLevel log.Level `env:"LOG_LEVEL" envDefault:"warn"`

	// DBPath empty means ~/.workboard/workboard.db.
	DBPath string `env:"WORKBOARD_DB"`

	Server struct {
		Addr string `env:"WORKBOARD_ADDR" envDefault:":4000"`
	}

	Redis struct {
		// URL empty disables cross-instance fan-out.
		URL     string `env:"REDIS_URL"`
		Channel string `env:"REDIS_CHANNEL" envDefault:"workboard:events"`
	}

	Feed struct {
		Interval time.Duration `env:"FEED_INTERVAL" envDefault:"12s"`
	}

	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}

// New parses the environment and resolves the default database path.
func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".workboard", "workboard.db")
	}
	if cfg.Debug {
		cfg.LogLevel = log.DebugLevel
	}
	if cfg.Feed.Interval < 0 {
		return nil, fmt.Errorf("FEED_INTERVAL must not be negative, got %s", cfg.Feed.Interval)
	}
	return &cfg, nil
}
