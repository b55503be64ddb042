package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immochat/immochat-web/internal/adapters/authroles"
	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
	mocks "github.com/immochat/immochat-web/internal/mocks/auth"
	"github.com/immochat/immochat-web/internal/ports"
)

func newTestAuthService(sessions ports.SessionStore) (*AuthService, *mocks.MockAuthProvider) {
	provider := mocks.NewMockAuthProvider()
	return NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    authroles.StaticRoleMapper{AdminGroup: "admins", UserGroup: "agents"},
	}), provider
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc, _ := newTestAuthService(mocks.NewMemorySessionStore())

	result, err := svc.BeginLogin(context.Background(), "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_RequiresRedirect(t *testing.T) {
	svc, _ := newTestAuthService(mocks.NewMemorySessionStore())

	_, err := svc.BeginLogin(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	svc, provider := newTestAuthService(mocks.NewMemorySessionStore())
	provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp down")
	}

	_, err := svc.BeginLogin(context.Background(), "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin auth flow")
}

func TestAuthService_CompleteLogin_PersistsSessionWithRole(t *testing.T) {
	store := mocks.NewMemorySessionStore()
	svc, _ := newTestAuthService(store)

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, domainauth.RoleUser, result.Session.Role)
	assert.Equal(t, "agent@immochat.test", result.Session.Email)
	assert.Equal(t, 1, store.Len())
}

func TestAuthService_CompleteLogin_RegeneratesTakenID(t *testing.T) {
	existing := domainauth.Session{ID: "taken", Email: "someone@immochat.test", ExpiresAt: time.Now().Add(time.Hour)}
	store := mocks.NewMemorySessionStore(existing)
	ids := []string{"taken", "taken", "fresh"}
	svc := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: store,
		Roles:    authroles.StaticRoleMapper{AdminGroup: "admins", UserGroup: "agents"},
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	})

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", result.Session.ID)
	assert.Equal(t, 2, store.Len())

	kept, err := store.Get(context.Background(), "taken")
	require.NoError(t, err)
	assert.Equal(t, "someone@immochat.test", kept.Email)
}

func TestAuthService_CompleteLogin_GivesUpAfterRepeatedCollisions(t *testing.T) {
	store := mocks.NewMemorySessionStore(domainauth.Session{ID: "taken", ExpiresAt: time.Now().Add(time.Hour)})
	calls := 0
	svc := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: store,
		Roles:    authroles.StaticRoleMapper{},
		NewID: func() string {
			calls++
			return "taken"
		},
	})

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.ErrorIs(t, err, ports.ErrSessionExists)
	assert.Equal(t, maxSessionIDAttempts, calls)
	assert.Equal(t, 1, store.Len())
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	svc, _ := newTestAuthService(mocks.NewMemorySessionStore())

	cases := []CompleteLoginInput{
		{State: "s", Nonce: "n"},
		{Code: "c", Nonce: "n"},
		{Code: "c", State: "s"},
	}
	for _, in := range cases {
		_, err := svc.CompleteLogin(context.Background(), in)
		assert.Error(t, err)
	}
}

func TestAuthService_CompleteLogin_SaveError(t *testing.T) {
	store := mocks.NewMemorySessionStore()
	store.Err = errors.New("redis down")
	svc, _ := newTestAuthService(store)

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	store := mocks.NewMemorySessionStore(domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	svc, _ := newTestAuthService(store)

	_, err := svc.GetSession(context.Background(), "old")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, store.Len())
}

func TestAuthService_CurrentSession(t *testing.T) {
	active := domainauth.Session{ID: "live", Email: "a@immochat.test", ExpiresAt: time.Now().Add(time.Hour)}
	expired := domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Hour)}
	svc, _ := newTestAuthService(mocks.NewMemorySessionStore(active, expired))
	ctx := context.Background()

	sess, err := svc.CurrentSession(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "a@immochat.test", sess.Email)

	for _, id := range []string{"", "missing", "old"} {
		sess, err = svc.CurrentSession(ctx, id)
		require.NoError(t, err, id)
		assert.Nil(t, sess, id)
	}
}

func TestAuthService_CurrentSession_StoreFailure(t *testing.T) {
	store := mocks.NewMemorySessionStore()
	store.Err = errors.New("connection refused")
	svc, _ := newTestAuthService(store)

	sess, err := svc.CurrentSession(context.Background(), "any")
	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAuthService_Logout(t *testing.T) {
	store := mocks.NewMemorySessionStore(domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)})
	svc, _ := newTestAuthService(store)

	require.NoError(t, svc.Logout(context.Background(), ""))
	require.NoError(t, svc.Logout(context.Background(), "s1"))
	assert.Equal(t, 0, store.Len())
}
