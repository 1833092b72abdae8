// Package authsdk is a small Go client for the auth service's HTTP API.
// It exists for integration tests and for sibling services that need to
// authenticate against this one.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken pre-sets the bearer token sent on authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token used for authenticated calls. Register,
// Login and Refresh do this automatically on success.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the bearer token currently in use.
func (c *Client) Token() string { return c.token }

// Register creates a local account and signs it in.
func (c *Client) Register(ctx context.Context, email, password string) (TokenResponse, error) {
	return c.tokenCall(ctx, "/v1/auth/register", credentialsRequest{Email: email, Password: password})
}

// Login signs in with an email/password pair.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	return c.tokenCall(ctx, "/v1/auth/login", credentialsRequest{Email: email, Password: password})
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, true)
	if err == nil {
		c.token = ""
	}
	return err
}

// Refresh trades the current token for a fresh one.
func (c *Client) Refresh(ctx context.Context) (TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", nil, &out, true); err != nil {
		return TokenResponse{}, err
	}
	c.token = out.AccessToken
	return out, nil
}

// UserInfo fetches the authenticated identity.
func (c *Client) UserInfo(ctx context.Context) (UserInfo, error) {
	var out UserInfo
	err := c.do(ctx, http.MethodGet, "/v1/userinfo", nil, &out, true)
	return out, err
}

// Livez reports whether the service process is up.
func (c *Client) Livez(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/livez", nil, nil, false)
}

// Readyz reports whether the service can reach its dependencies.
func (c *Client) Readyz(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", nil, nil, false)
}

func (c *Client) tokenCall(ctx context.Context, path string, body any) (TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out, false); err != nil {
		return TokenResponse{}, err
	}
	c.token = out.AccessToken
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
