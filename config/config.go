package config

import (
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and session store configuration
//   - database.go: Postgres and Redis configuration
//   - http.go: HTTP server configuration
//   - ui.go: Login route and toast options (plus the optional YAML overlay)
//   - diagnostics.go: Auth diagnostics checks
type AppConfig struct {
	// IsDev controls development mode behavior (template hot reload, verbose errors).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	UI UIConfig

	Diagnostics DiagnosticsConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.UI.Sanitize()
	c.Diagnostics.Sanitize()
	c.Observability.Sanitize()

	// The Postgres store needs a pool even when DB_ENABLED was left unset.
	if c.Auth.SessionStore == SessionStorePostgres {
		c.Postgres.Enabled = true
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.detectDevMode()
}

// detectDevMode checks NODE_ENV as a fallback to DEV (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Problems lists configuration combinations that will fail at runtime.
// An empty result means the configuration is usable.
func (c *AppConfig) Problems() []string {
	var out []string
	if c.Auth.Mode == AuthModeOAuth {
		if c.Auth.OAuth.DiscoveryURL == "" {
			out = append(out, "OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth")
		}
		if c.Auth.OAuth.ClientSecret == "" {
			out = append(out, "OAUTH_CLIENT_SECRET is required when AUTH_MODE=oauth")
		}
	}
	if c.Auth.Mode == AuthModeMock && !c.IsDev {
		out = append(out, "AUTH_MODE=mock is intended for development only")
	}
	if c.Auth.AdminGroup == "" && c.Auth.UserGroup == "" {
		out = append(out, "ADMIN_GROUP and USER_GROUP are both empty; every user maps to guest")
	}
	if !strings.HasPrefix(c.UI.LoginPath, "/") {
		out = append(out, "UI_LOGIN_PATH must be an absolute path")
	}
	return out
}
