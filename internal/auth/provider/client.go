package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/signetlabs/signet/internal/auth/domain"

	"golang.org/x/oauth2"
)

const requestTimeout = 10 * time.Second

var (
	ErrExchangeFailed = errors.New("token_exchange_failed")
	ErrProfileFailed  = errors.New("profile_fetch_failed")
)

// Client talks to a provider's token and profile endpoints. The interface
// exists so the authorization flow can be tested against a fake.
type Client interface {
	ExchangeCode(ctx context.Context, cfg domain.ProviderConfig, code string) (domain.ProviderTokens, error)
	FetchProfile(ctx context.Context, cfg domain.ProviderConfig, accessToken string) (domain.ProviderProfile, error)
}

// AuthCodeURL builds the provider's authorization redirect URL with the
// given anti-forgery state bound in.
func AuthCodeURL(cfg domain.ProviderConfig, state string) string {
	return oauthConfig(cfg).AuthCodeURL(state)
}

func oauthConfig(cfg domain.ProviderConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}
}

// HTTPClient is the production Client. A nil http.Client falls back to a
// client with a sane timeout.
type HTTPClient struct {
	httpClient *http.Client
}

func NewHTTPClient(httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &HTTPClient{httpClient: httpClient}
}

func (c *HTTPClient) ExchangeCode(
	ctx context.Context,
	cfg domain.ProviderConfig,
	code string,
) (domain.ProviderTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := oauthConfig(cfg).Exchange(ctx, code)
	if err != nil {
		return domain.ProviderTokens{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return domain.ProviderTokens{}, fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}

	return domain.ProviderTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}, nil
}

func (c *HTTPClient) FetchProfile(
	ctx context.Context,
	cfg domain.ProviderConfig,
	accessToken string,
) (domain.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ProfileURL, nil)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: %w", ErrProfileFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: %w", ErrProfileFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return domain.ProviderProfile{}, fmt.Errorf("%w: status %d", ErrProfileFailed, resp.StatusCode)
	}

	var payload struct {
		Sub   string          `json:"sub"`
		ID    json.RawMessage `json:"id"`
		Email string          `json:"email"`
		Name  string          `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: %w", ErrProfileFailed, err)
	}

	return domain.ProviderProfile{
		SubjectID: subjectID(payload.Sub, payload.ID),
		Email:     payload.Email,
		Name:      payload.Name,
	}, nil
}

// subjectID normalizes the provider's stable user identifier. OIDC-style
// providers use a string "sub"; github uses a numeric "id".
func subjectID(sub string, raw json.RawMessage) string {
	if sub != "" {
		return sub
	}
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}

	return ""
}
