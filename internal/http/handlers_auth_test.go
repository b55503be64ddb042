package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/immochat/immochat-web/internal/domain/auth"
	"github.com/immochat/immochat-web/internal/service"
)

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc     func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc  func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	currentSessionFunc func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc         func(ctx context.Context, sessionID string) error
	loggedOut          []string
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://login.example/authorize?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{Session: testSession("test-session-id")}, nil
}

func (m *mockAuthService) CurrentSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if m.currentSessionFunc != nil {
		return m.currentSessionFunc(ctx, sessionID)
	}
	s := testSession(sessionID)
	return &s, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	m.loggedOut = append(m.loggedOut, sessionID)
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "agent-7",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@immochat.test",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantRedirect string
	}{
		{"default", "/auth/login", "/"},
		{"relative redirect kept", "/auth/login?redirect_uri=/dashboard", "/dashboard"},
		{"absolute redirect dropped", "/auth/login?redirect_uri=https://evil.example/x", "/"},
		{"scheme relative dropped", "/auth/login?redirect_uri=//evil.example", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			svc := &mockAuthService{beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
				got = redirectURL
				return &service.BeginLoginResult{AuthURL: "https://login.example/authorize", State: "s", Nonce: "n"}, nil
			}}
			h := &AuthHandlers{Svc: svc}

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "https://login.example/authorize", rec.Header().Get("Location"))
			assert.Equal(t, tt.wantRedirect, got)

			c := findCookie(t, rec, "post_login_redirect")
			require.NotNil(t, c)
			assert.Equal(t, tt.wantRedirect, c.Value)
			assert.NotNil(t, findCookie(t, rec, "oauth_state"))
			assert.NotNil(t, findCookie(t, rec, "oauth_nonce"))
		})
	}
}

func TestAuthHandlers_Login_ServiceError(t *testing.T) {
	svc := &mockAuthService{beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
		return nil, errors.New("discovery unavailable")
	}}
	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: svc}).Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_failed")
}

func TestAuthHandlers_Login_SecureCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: &mockAuthService{}, SecureCookies: true, CookieDomain: "immochat.example"}).
		Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	c := findCookie(t, rec, "oauth_state")
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "immochat.example", c.Domain)
}

func callbackRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"})
	return req
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	var input service.CompleteLoginInput
	svc := &mockAuthService{completeLoginFunc: func(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
		input = in
		return &service.CompleteLoginResult{Session: testSession("test-session-id")}, nil
	}}
	req := callbackRequest("/auth/callback?code=test-code&state=test-state")
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard?tab=valuations"})

	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: svc}).Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard?tab=valuations", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "test-code", State: "test-state", Nonce: "test-nonce"}, input)

	c := findCookie(t, rec, "session_id")
	require.NotNil(t, c)
	assert.Equal(t, "test-session-id", c.Value)
	assert.Positive(t, c.MaxAge)
}

func TestAuthHandlers_Callback_DefaultsToDashboard(t *testing.T) {
	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: &mockAuthService{}}).Callback(rec, callbackRequest("/auth/callback?code=c&state=test-state"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, RouteDashboard, rec.Header().Get("Location"))
}

func TestAuthHandlers_Callback_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		req     *http.Request
		errCode string
	}{
		{"missing code", callbackRequest("/auth/callback?state=test-state"), "missing_code"},
		{"missing state", callbackRequest("/auth/callback?code=c"), "missing_state"},
		{"state mismatch", callbackRequest("/auth/callback?code=c&state=other"), "invalid_state"},
		{
			"missing nonce",
			func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=test-state", nil)
				r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
				return r
			}(),
			"missing_nonce",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&AuthHandlers{Svc: &mockAuthService{}}).Callback(rec, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.errCode)
		})
	}
}

func TestAuthHandlers_Callback_CompletionError(t *testing.T) {
	svc := &mockAuthService{completeLoginFunc: func(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
		return nil, errors.New("nonce mismatch")
	}}
	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: svc}).Callback(rec, callbackRequest("/auth/callback?code=c&state=test-state"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, findCookie(t, rec, "session_id"))
}

func TestAuthHandlers_Logout(t *testing.T) {
	svc := &mockAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})

	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: svc}).Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2F", rec.Header().Get("Location"))
	assert.Equal(t, []string{"test-session-id"}, svc.loggedOut)

	c := findCookie(t, rec, "session_id")
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestAuthHandlers_Logout_HTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout?redirect_uri=/dashboard", nil)
	req.Header.Set("Hx-Request", "true")

	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: &mockAuthService{}}).Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2Fdashboard", rec.Header().Get("Hx-Redirect"))
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "showToast")
}

func TestAuthHandlers_Logout_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: &mockAuthService{}}).Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/auth/signed-out?redirect_uri=%2F"}`, rec.Body.String())
}

func TestAuthHandlers_Logout_StoreErrorStillSignsOut(t *testing.T) {
	svc := &mockAuthService{logoutFunc: func(context.Context, string) error { return errors.New("redis down") }}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "s"})

	rec := httptest.NewRecorder()
	(&AuthHandlers{Svc: svc}).Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAuthHandlers_Status(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})

		rec := httptest.NewRecorder()
		(&AuthHandlers{Svc: &mockAuthService{}}).Status(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":true`)
		assert.Contains(t, rec.Body.String(), `"email":"ada@immochat.test"`)
		assert.Contains(t, rec.Body.String(), `"role":"user"`)
	})

	t.Run("unknown session clears cookie", func(t *testing.T) {
		svc := &mockAuthService{currentSessionFunc: func(context.Context, string) (*domainauth.Session, error) {
			return nil, nil
		}}
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "stale"})

		rec := httptest.NewRecorder()
		(&AuthHandlers{Svc: svc}).Status(rec, req)

		assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
		c := findCookie(t, rec, "session_id")
		require.NotNil(t, c)
		assert.Equal(t, -1, c.MaxAge)
	})

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&AuthHandlers{Svc: &mockAuthService{}}).Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	})
}
