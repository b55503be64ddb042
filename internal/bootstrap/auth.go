package bootstrap

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/immochat/immochat-web/config"
	"github.com/immochat/immochat-web/internal/adapters/authroles"
	"github.com/immochat/immochat-web/internal/adapters/devauth"
	"github.com/immochat/immochat-web/internal/adapters/oidc"
	redisadapter "github.com/immochat/immochat-web/internal/adapters/redis"
	"github.com/immochat/immochat-web/internal/data"
	"github.com/immochat/immochat-web/internal/ports"
	"github.com/immochat/immochat-web/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
	DB          *sql.DB
	Logger      *slog.Logger
}

// AuthComponents is what the HTTP layer needs from the auth subsystem.
type AuthComponents struct {
	// Login is nil when no provider could be built; the /auth routes are then not served.
	Login *service.AuthService
	// Sessions always reads the configured store, even without a provider.
	Sessions ports.SessionReader
	Store    ports.SessionStore
}

// BuildSessionStore returns the store selected by SESSION_STORE.
//
//nolint:ireturn // the concrete store depends on configuration.
func BuildSessionStore(cfg AuthConfig) (ports.SessionStore, error) {
	switch cfg.Auth.SessionStore {
	case config.SessionStorePostgres:
		if cfg.DB == nil {
			return nil, errors.New("SESSION_STORE=postgres requires a database connection")
		}
		return data.NewSessionRepo(cfg.DB), nil
	case config.SessionStoreRedis, "":
		if cfg.RedisClient == nil {
			return nil, errors.New("SESSION_STORE=redis requires a redis client")
		}
		return redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Redis.KeyPrefix), nil
	default:
		return nil, errors.New("unknown session store " + string(cfg.Auth.SessionStore))
	}
}

// BuildAuth wires the session store, role mapper and the provider for AUTH_MODE.
// A provider that cannot be built disables login but keeps session reads working.
func BuildAuth(cfg AuthConfig) (AuthComponents, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := BuildSessionStore(cfg)
	if err != nil {
		return AuthComponents{}, err
	}
	roles := authroles.StaticRoleMapper{
		AdminGroup: cfg.Auth.AdminGroup,
		UserGroup:  cfg.Auth.UserGroup,
	}

	provider := buildProvider(cfg, logger)
	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: store,
		Roles:    roles,
	})

	out := AuthComponents{Sessions: svc, Store: store}
	if provider != nil {
		out.Login = svc
	}
	return out, nil
}

//nolint:ireturn // the provider depends on AUTH_MODE.
func buildProvider(cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevProvider(cfg, logger)
	case config.AuthModeOAuth:
		return buildOAuthProvider(cfg, logger)
	default:
		logger.Warn("unknown auth mode; login disabled", "mode", cfg.Auth.Mode)
		return nil
	}
}

//nolint:ireturn // nil interface when the provider cannot be built.
func buildDevProvider(cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	dev := cfg.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          dev.UserID,
		Email:           dev.Email,
		FirstName:       dev.FirstName,
		LastName:        dev.LastName,
		Groups:          dev.Groups,
		SessionDuration: dev.SessionDuration,
		CallbackPath:    callbackPath(cfg.Auth.OAuth.RedirectURL),
	})
	if err != nil {
		logger.Warn("failed to create dev auth provider, login disabled", "error", err)
		return nil
	}
	logger.Warn("dev auth enabled; every login signs in as the configured user", "user_id", dev.UserID)
	return prov
}

//nolint:ireturn // nil interface when the provider cannot be built.
func buildOAuthProvider(cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		logger.Warn("AUTH_MODE=oauth selected but required config missing; login disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, login disabled", "error", err)
		return nil
	}
	return prov
}

// callbackPath keeps the dev provider on the same callback route as OAUTH_REDIRECT_URL.
func callbackPath(redirectURL string) string {
	u, err := url.Parse(redirectURL)
	if err != nil || u.Path == "" {
		return ""
	}
	return u.Path
}
