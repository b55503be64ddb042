package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// SessionStoreKind selects the SessionStore backend.
type SessionStoreKind string

const (
	SessionStoreRedis    SessionStoreKind = "redis"
	SessionStorePostgres SessionStoreKind = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (s *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "postgres":
		*s = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStore: %q (valid options: redis, postgres)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"immochat-web"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID          string        `env:"USER_ID"          envDefault:"dev-user"`
	Email           string        `env:"EMAIL"            envDefault:"dev@immochat.local"`
	FirstName       string        `env:"FIRST_NAME"       envDefault:"Dev"`
	LastName        string        `env:"LAST_NAME"        envDefault:"Agent"`
	Groups          []string      `env:"GROUPS"           envDefault:"immochat-agents" envSeparator:";"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the IdP group whose members get the admin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"immochat-admins"`

	// UserGroup is the IdP group whose members get the user role.
	UserGroup string `env:"USER_GROUP" envDefault:"immochat-agents"`

	// SessionStore selects where sessions live.
	SessionStore SessionStoreKind `env:"SESSION_STORE" envDefault:"redis"`

	// SessionReapInterval is how often expired Postgres sessions are purged.
	// Zero disables the reaper. Redis expires sessions on its own.
	SessionReapInterval time.Duration `env:"SESSION_REAP_INTERVAL" envDefault:"15m"`

	// SessionEchoProjection is a JMESPath expression applied to the stored session
	// document by GET /api/auth/session-test. Empty uses the built-in projection.
	SessionEchoProjection string `env:"SESSION_ECHO_PROJECTION"`
}

// Sanitize trims group names and the projection expression and clamps durations.
func (a *AuthConfig) Sanitize() {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.UserGroup = strings.TrimSpace(a.UserGroup)
	a.SessionEchoProjection = strings.TrimSpace(a.SessionEchoProjection)
	if a.SessionReapInterval < 0 {
		a.SessionReapInterval = 0
	} else if a.SessionReapInterval > 0 && a.SessionReapInterval < time.Minute {
		a.SessionReapInterval = time.Minute
	}
	if a.DevAuth.SessionDuration <= 0 {
		a.DevAuth.SessionDuration = 8 * time.Hour
	}
}
