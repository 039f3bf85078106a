// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devSecret = "dev_secret_change_me"

// Config holds every setting the server reads at startup.
type Config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	DatabasePath   string        `env:"DATABASE_PATH" envDefault:"./data/yams.db"`
	JWTSecret      string        `env:"JWT_SECRET"` // devSecret when unset
	JWTExpiresDays int           `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"yams_token"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	GameTTL        time.Duration `env:"GAME_TTL" envDefault:"24h"`
	GameStore      string        `env:"GAME_STORE" envDefault:"sqlite"`
}

// Production reports whether the server runs with production cookie and log settings.
func (c Config) Production() bool { return c.AppEnv == "production" }

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.JWTSecret == "" {
		c.JWTSecret = devSecret
	}
	if c.Production() && c.JWTSecret == devSecret {
		return Config{}, errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExpiresDays <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays)
	}
	if c.GameStore != "sqlite" && c.GameStore != "memory" {
		return Config{}, fmt.Errorf("GAME_STORE must be sqlite or memory, got %q", c.GameStore)
	}
	return c, nil
}
