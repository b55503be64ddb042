package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immochat/immochat-web/internal/ports"
)

// newDiscoveryServer serves a discovery document whose issuer is the server URL.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	issuer := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(DiscoveryDocument{
			Issuer:                issuer,
			AuthorizationEndpoint: "https://idp.immochat.test/auth",
			TokenEndpoint:         "https://idp.immochat.test/token",
			UserinfoEndpoint:      "https://idp.immochat.test/userinfo",
			JwksURI:               "https://idp.immochat.test/jwks",
		})
	}))
	t.Cleanup(srv.Close)
	issuer = srv.URL
	return srv
}

func createTestProvider(t *testing.T) *Provider {
	t.Helper()
	srv := newDiscoveryServer(t)
	provider, err := NewProvider(ProviderConfig{
		ClientID:     "immochat-web",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email groups",
		DiscoveryURL: srv.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	return provider
}

func TestNewProvider_Success(t *testing.T) {
	provider := createTestProvider(t)
	assert.Equal(t, "https://idp.immochat.test/auth", provider.config.Endpoint.AuthURL)
	assert.Equal(t, "https://idp.immochat.test/token", provider.config.Endpoint.TokenURL)
	assert.Equal(t, []string{"openid", "profile", "email", "groups"}, provider.config.Scopes)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name:   "missing client ID",
			config: ProviderConfig{ClientSecret: "s", RedirectURL: "http://x/cb", DiscoveryURL: "http://x"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing client secret",
			config: ProviderConfig{ClientID: "c", RedirectURL: "http://x/cb", DiscoveryURL: "http://x"},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "c", ClientSecret: "s", DiscoveryURL: "http://x"},
			errMsg: "redirect URL is required",
		},
		{
			name:   "missing discovery URL",
			config: ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "http://x/cb"},
			errMsg: "discovery URL is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestIssuerFromDiscoveryURL(t *testing.T) {
	assert.Equal(t, "https://idp.test/realms/x", IssuerFromDiscoveryURL("https://idp.test/realms/x/.well-known/openid-configuration"))
	assert.Equal(t, "https://idp.test", IssuerFromDiscoveryURL("https://idp.test/"))
}

func TestProvider_Begin(t *testing.T) {
	provider := createTestProvider(t)

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/dashboard"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.Contains(t, authURL, "https://idp.immochat.test/auth")
	assert.Contains(t, authURL, "client_id=immochat-web")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)
}

func TestProvider_Begin_EmptyRedirectURL(t *testing.T) {
	provider := createTestProvider(t)
	_, _, _, err := provider.Begin(context.Background(), ports.BeginInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	provider := createTestProvider(t)

	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization code is required")

	_, err = provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce is required")
}

func TestProvider_Exchange_TokenEndpointUnreachable(t *testing.T) {
	provider := createTestProvider(t)
	provider.config.Endpoint.TokenURL = "http://127.0.0.1:1/token"

	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestUserClaims_Identity(t *testing.T) {
	c := userClaims{Subject: "sub-1", Email: "a@immochat.test", Name: "Ada Lovelace", Groups: []string{"agents"}}
	id := c.identity(time.Time{})
	assert.Equal(t, "sub-1", id.UserID)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, "Lovelace", id.LastName)
	assert.Equal(t, []string{"agents"}, id.Groups)

	c = userClaims{Subject: "sub-2", GivenName: "Grace", FamilyName: "Hopper", Name: "ignored name"}
	id = c.identity(time.Time{})
	assert.Equal(t, "Grace", id.FirstName)
	assert.Equal(t, "Hopper", id.LastName)
}

func TestUserClaims_MergeKeepsExisting(t *testing.T) {
	c := userClaims{Subject: "keep", Email: "keep@immochat.test", Groups: []string{"x"}}
	c.merge(userClaims{Subject: "other", Email: "other@immochat.test", GivenName: "G", Groups: []string{"y"}})
	assert.Equal(t, "keep", c.Subject)
	assert.Equal(t, "keep@immochat.test", c.Email)
	assert.Equal(t, "G", c.GivenName)
	assert.Equal(t, []string{"x"}, c.Groups)
}

func TestGenerateRandomString(t *testing.T) {
	str1, err := generateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, str1, 16)

	str2, err := generateRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, str1, str2)

	empty, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
