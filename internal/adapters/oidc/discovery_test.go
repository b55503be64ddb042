package oidc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryCheck_Pass(t *testing.T) {
	srv := newDiscoveryServer(t)
	check := &DiscoveryCheck{DiscoveryURL: srv.URL + "/.well-known/openid-configuration", HTTPClient: srv.Client()}

	hint, err := check.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hint)
	assert.Equal(t, "identity_provider", check.Name())
}

func TestDiscoveryCheck_NotConfigured(t *testing.T) {
	hint, err := (&DiscoveryCheck{}).Check(context.Background())
	require.Error(t, err)
	assert.Equal(t, "set OAUTH_DISCOVERY_URL", hint)
}

func TestDiscoveryCheck_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	hint, err := (&DiscoveryCheck{DiscoveryURL: srv.URL}).Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.NotEmpty(t, hint)
}

func TestDiscoveryDocument_Validate(t *testing.T) {
	doc := DiscoveryDocument{Issuer: "https://idp.test/"}
	err := doc.validate("https://idp.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization_endpoint, token_endpoint, jwks_uri")

	doc = DiscoveryDocument{
		Issuer:                "https://other.test",
		AuthorizationEndpoint: "a",
		TokenEndpoint:         "t",
		JwksURI:               "j",
	}
	err = doc.validate("https://idp.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuer mismatch")

	doc.Issuer = "https://idp.test/"
	assert.NoError(t, doc.validate("https://idp.test"))
}
