package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/userclouds/sdk-go/pkg/ucerr"
)

// tokenEndpoint is the OAuth2 client-credentials grant endpoint.
const tokenEndpoint = "/oidc/token"

// getAccessToken fetches a fresh bearer token. It deliberately bypasses
// do(): acquiring a token must never trigger its own refresh.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.authorization)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", ucerr.FromResponse(resp, body)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	return tr.AccessToken, nil
}

// refreshAccessTokenIfNeeded returns the cached token, fetching a new
// one when none is cached or the cached token's expiry has passed.
func (c *Client) refreshAccessTokenIfNeeded(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && tokenFresh(c.accessToken) {
		return c.accessToken, nil
	}

	c.logger.DebugContext(ctx, "refreshing access token")
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return "", err
	}
	c.accessToken = token
	return token, nil
}

// tokenSignatureAlgorithms lists the algorithms accepted when parsing
// the cached token. go-jose rejects tokens whose alg header is outside
// the list, so the set is permissive.
var tokenSignatureAlgorithms = []jose.SignatureAlgorithm{
	jose.RS256, jose.PS256, jose.ES256, jose.EdDSA, jose.HS256,
}

// tokenFresh reports whether the token's exp claim is still in the
// future. The signature is deliberately not verified: the SDK is a
// client, not the resource server, and trusts the claims of the token
// the server issued to it. A token with no exp claim, or one that fails
// to parse, counts as expired so the next call fetches a replacement.
func tokenFresh(token string) bool {
	parsed, err := jwt.ParseSigned(token, tokenSignatureAlgorithms)
	if err != nil {
		return false
	}
	var claims jwt.Claims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return false
	}
	if claims.Expiry == nil {
		return false
	}
	return claims.Expiry.Time().After(time.Now())
}
