package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immochat/immochat-web/config"
	redisadapter "github.com/immochat/immochat-web/internal/adapters/redis"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unconnectedRedis builds a client without dialing; commands are never issued.
func unconnectedRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBuildSessionStore(t *testing.T) {
	_, err := BuildSessionStore(AuthConfig{Auth: config.AuthConfig{SessionStore: config.SessionStoreRedis}})
	require.ErrorContains(t, err, "requires a redis client")

	_, err = BuildSessionStore(AuthConfig{Auth: config.AuthConfig{SessionStore: config.SessionStorePostgres}})
	require.ErrorContains(t, err, "requires a database connection")

	store, err := BuildSessionStore(AuthConfig{
		Auth:        config.AuthConfig{SessionStore: config.SessionStoreRedis},
		Redis:       config.RedisConfig{KeyPrefix: "immochat:session:"},
		RedisClient: unconnectedRedis(t),
	})
	require.NoError(t, err)
	assert.IsType(t, &redisadapter.SessionStore{}, store)
}

func TestBuildAuth_DevModeEnablesLogin(t *testing.T) {
	comps, err := BuildAuth(AuthConfig{
		Auth: config.AuthConfig{
			Mode:         config.AuthModeMock,
			SessionStore: config.SessionStoreRedis,
			AdminGroup:   "immochat-admins",
			UserGroup:    "immochat-agents",
			OAuth:        config.OAuthConfig{RedirectURL: "http://localhost:8080/auth/callback"},
			DevAuth: config.DevAuthConfig{
				UserID: "dev-user",
				Email:  "dev@immochat.local",
				Groups: []string{"immochat-agents"},
			},
		},
		RedisClient: unconnectedRedis(t),
		Logger:      discardLogger(),
	})
	require.NoError(t, err)
	require.NotNil(t, comps.Login)
	assert.NotNil(t, comps.Sessions)
	assert.NotNil(t, comps.Store)

	res, err := comps.Login.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Contains(t, res.AuthURL, "/auth/callback")
}

func TestBuildAuth_LoginDisabledKeepsSessionReads(t *testing.T) {
	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "oauth without discovery url",
			auth: config.AuthConfig{
				Mode:         config.AuthModeOAuth,
				SessionStore: config.SessionStoreRedis,
				OAuth:        config.OAuthConfig{ClientID: "immochat-web", ClientSecret: "s"},
			},
		},
		{
			name: "dev auth without user id",
			auth: config.AuthConfig{
				Mode:         config.AuthModeMock,
				SessionStore: config.SessionStoreRedis,
				DevAuth:      config.DevAuthConfig{Email: "dev@immochat.local"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps, err := BuildAuth(AuthConfig{Auth: tt.auth, RedisClient: unconnectedRedis(t), Logger: discardLogger()})
			require.NoError(t, err)
			assert.Nil(t, comps.Login)
			require.NotNil(t, comps.Sessions)

			sess, err := comps.Sessions.CurrentSession(context.Background(), "")
			require.NoError(t, err)
			assert.Nil(t, sess)
		})
	}
}

func TestBuildAuth_StoreErrorPropagates(t *testing.T) {
	_, err := BuildAuth(AuthConfig{
		Auth:   config.AuthConfig{Mode: config.AuthModeMock, SessionStore: config.SessionStorePostgres},
		Logger: discardLogger(),
	})
	require.Error(t, err)
}

func TestCallbackPath(t *testing.T) {
	assert.Equal(t, "/auth/callback", callbackPath("https://immochat.example/auth/callback"))
	assert.Equal(t, "/sso/return", callbackPath("/sso/return"))
	assert.Empty(t, callbackPath(""))
	assert.Empty(t, callbackPath("://bad"))
}
