package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/immochat/immochat-web/config"
)

// logLevel backs the default logger so the level can follow LOG_LEVEL once config is loaded.
var logLevel = new(slog.LevelVar)

// InitLogger initializes the structured logger and installs it as the default.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// SetLogLevel changes the level of loggers built by InitLogger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// LoadConfig loads configuration from environment variables, then the optional UI file.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	_, loginPathFromEnv := os.LookupEnv("UI_LOGIN_PATH")
	if err := cfg.UI.ApplyFile(loginPathFromEnv); err != nil {
		return cfg, err
	}

	cfg.Sanitize()
	SetLogLevel(cfg.SlogLevel())
	return cfg, nil
}
