package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/immochat/immochat-web/internal/ports"
)

// DiscoveryDocument represents the fields of the OIDC discovery document we depend on.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

func (d DiscoveryDocument) validate(expectedIssuer string) error {
	var missing []string
	if d.AuthorizationEndpoint == "" {
		missing = append(missing, "authorization_endpoint")
	}
	if d.TokenEndpoint == "" {
		missing = append(missing, "token_endpoint")
	}
	if d.JwksURI == "" {
		missing = append(missing, "jwks_uri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("discovery document missing %s", strings.Join(missing, ", "))
	}
	if expectedIssuer != "" && strings.TrimSuffix(d.Issuer, "/") != expectedIssuer {
		return fmt.Errorf("issuer mismatch: discovery reports %q, configured %q", d.Issuer, expectedIssuer)
	}
	return nil
}

// DiscoveryCheck fetches the discovery document on every run.
type DiscoveryCheck struct {
	DiscoveryURL string
	HTTPClient   *http.Client
}

var _ ports.HealthCheck = (*DiscoveryCheck)(nil)

func (c *DiscoveryCheck) Name() string { return "identity_provider" }

func (c *DiscoveryCheck) Check(ctx context.Context) (string, error) {
	if c.DiscoveryURL == "" {
		return "set OAUTH_DISCOVERY_URL", errors.New("discovery URL not configured")
	}
	issuer := IssuerFromDiscoveryURL(c.DiscoveryURL)
	doc, err := FetchDiscovery(ctx, c.client(), issuer)
	if err != nil {
		return "verify the identity provider is reachable from this host", err
	}
	if err := doc.validate(issuer); err != nil {
		return "OAUTH_DISCOVERY_URL must point at the issuer of this provider", err
	}
	return "", nil
}

func (c *DiscoveryCheck) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// FetchDiscovery loads and decodes issuer/.well-known/openid-configuration.
func FetchDiscovery(ctx context.Context, client *http.Client, issuer string) (DiscoveryDocument, error) {
	var doc DiscoveryDocument
	wellKnown := strings.TrimSuffix(issuer, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, nil)
	if err != nil {
		return doc, fmt.Errorf("build discovery request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return doc, fmt.Errorf("fetch discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return doc, fmt.Errorf("discovery endpoint returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return doc, fmt.Errorf("read discovery document: %w", err)
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return doc, fmt.Errorf("decode discovery document: %w", err)
	}
	return doc, nil
}
