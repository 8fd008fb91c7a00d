package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/userclouds/sdk-go/internal/version"
	"github.com/userclouds/sdk-go/pkg/ucerr"
)

const jsonContentType = "application/json"

// Client is an HTTP client bound to one tenant. It attaches a bearer
// token to every request, refreshing it when the cached token expires.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	authorization string
	userAgent     string
	logger        *slog.Logger

	mu          sync.Mutex
	accessToken string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Development use only.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithLogger sets a logger for debug-level request and token-refresh
// logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithSessionName tags requests with a session name in the User-Agent,
// so calls from one sample run or job can be grouped in tenant logs.
func WithSessionName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.userAgent = fmt.Sprintf("UserClouds Go SDK v%s [%s]", version.Version, name)
		}
	}
}

// New creates a Client for the tenant at baseURL. The client ID and
// secret are Basic-encoded once and used only against the token
// endpoint.
func New(baseURL, clientID, clientSecret string, opts ...Option) *Client {
	creds := url.QueryEscape(clientID) + ":" + url.QueryEscape(clientSecret)
	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		authorization: base64.StdEncoding.EncodeToString([]byte(creds)),
		userAgent:     fmt.Sprintf("UserClouds Go SDK v%s", version.Version),
		logger:        slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Environment variables read by FromEnv. Each required variable is also
// accepted with a USERCLOUDS_ prefix.
const (
	EnvTenantURL    = "TENANT_URL"
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
)

// FromEnv creates a Client from the TENANT_URL, CLIENT_ID, and
// CLIENT_SECRET environment variables. A missing variable is a fatal
// configuration error reported before any network call.
func FromEnv(opts ...Option) (*Client, error) {
	tenantURL, err := ReadEnv(EnvTenantURL, "Tenant URL")
	if err != nil {
		return nil, err
	}
	clientID, err := ReadEnv(EnvClientID, "Client ID")
	if err != nil {
		return nil, err
	}
	clientSecret, err := ReadEnv(EnvClientSecret, "Client Secret")
	if err != nil {
		return nil, err
	}
	return New(tenantURL, clientID, clientSecret, opts...), nil
}

// Get issues a GET request and decodes the JSON response into out.
// Pass a nil out to discard the body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	resp, body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(resp, body, out)
}

// Post issues a POST request with a JSON body and decodes the JSON
// response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	resp, body, err := c.do(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return err
	}
	return decode(resp, body, out)
}

// Put issues a PUT request with a JSON body and decodes the JSON
// response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	resp, body, err := c.do(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return err
	}
	return decode(resp, body, out)
}

// Delete issues a DELETE request. It returns false without error when
// the resource was already absent (HTTP 404), and true when the server
// confirmed removal with HTTP 204.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (bool, error) {
	resp, body, err := c.do(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 400 {
		return false, ucerr.FromResponse(resp, body)
	}
	return resp.StatusCode == http.StatusNoContent, nil
}

// Download issues a GET request and returns the raw response body,
// used for fetching generated code artifacts.
func (c *Client) Download(ctx context.Context, path string) (string, error) {
	resp, body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", ucerr.FromResponse(resp, body)
	}
	return string(body), nil
}

// do refreshes the token if needed, issues one HTTP request, and
// returns the response with its fully-read body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, []byte, error) {
	token, err := c.refreshAccessTokenIfNeeded(ctx)
	if err != nil {
		return nil, nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Usercloudssdk-Version", version.Version)
	if in != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}

	c.logger.DebugContext(ctx, "request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp, body, nil
}

// decode translates error statuses and unmarshals success bodies.
func decode(resp *http.Response, body []byte, out any) error {
	if resp.StatusCode >= 400 {
		return ucerr.FromResponse(resp, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
