package config

import (
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds all server settings. It is populated from the environment once
// at startup and handed to the server at construction; nothing reads the
// environment after that.
type Config struct {
	Addr       string `env:"PASSGATE_ADDR"`
	DBPath     string `env:"PASSGATE_DB" envDefault:"passgate.db"`
	BcryptCost int    `env:"PASSGATE_BCRYPT_COST" envDefault:"10"`
	CORSOrigin string `env:"PASSGATE_CORS_ORIGIN" envDefault:"*"`
	LogLevel   string `env:"PASSGATE_LOG_LEVEL" envDefault:"info"`

	// Build metadata, injected by main via ldflags rather than the env.
	Version   string
	Commit    string
	BuildTime string
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Addr == "" {
		// PORT is what most PaaS runtimes set.
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		} else {
			cfg.Addr = ":8080"
		}
	}
	return cfg, nil
}
