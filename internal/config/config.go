package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration, read from the environment.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"host=localhost user=penpost password=penpost dbname=penpost port=5432 sslmode=disable"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	IdentityVerifyURL string `env:"IDENTITY_VERIFY_URL,required"`

	// WSAllowAllOrigins disables websocket origin checks. Dev only.
	WSAllowAllOrigins bool `env:"WS_ALLOW_ALL_ORIGINS" envDefault:"false"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
