package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads an optional .env file, then the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return App{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return App{}, err
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" || strings.TrimSpace(cfg.JWTSecret) == "" {
		return App{}, errors.New("DATABASE_URL and JWT_SECRET must not be empty")
	}
	if cfg.JWTTTLHours <= 0 {
		return App{}, errors.New("JWT_TTL_HOURS must be positive")
	}
	if cfg.RateLimitRPS < 0 {
		return App{}, errors.New("RATE_LIMIT_RPS cannot be negative")
	}
	return cfg, nil
}

func (a App) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
