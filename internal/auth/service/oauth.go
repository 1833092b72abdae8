package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/signetlabs/signet/internal/auth/provider"
	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/signetlabs/signet/pkg/slogx"
)

// OAuthService drives the authorization-code flow: building the redirect to
// the provider, then turning the provider's callback into a local identity
// and an access token.
type OAuthService struct {
	Registry *provider.Registry
	Client   provider.Client
	Resolver *IdentityResolver
	Tokens   *TokenService
}

func NewOAuthService(
	registry *provider.Registry,
	client provider.Client,
	resolver *IdentityResolver,
	tokens *TokenService,
) *OAuthService {
	return &OAuthService{
		Registry: registry,
		Client:   client,
		Resolver: resolver,
		Tokens:   tokens,
	}
}

// Initiation is the result of starting an authorization flow. The caller
// must stash State somewhere the callback can read it back (a cookie) and
// redirect the user agent to RedirectURL.
type Initiation struct {
	RedirectURL string
	State       string
}

// Initiate starts the flow against the named provider, minting a fresh
// anti-forgery state and binding it into the authorization URL.
func (s *OAuthService) Initiate(providerName string) (Initiation, error) {
	cfg, err := s.Registry.Get(providerName)
	if err != nil {
		return Initiation{}, err
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Initiation{}, err
	}

	return Initiation{
		RedirectURL: provider.AuthCodeURL(cfg, state),
		State:       state,
	}, nil
}

// CallbackParams carries everything the provider's redirect handed back,
// plus the state the flow was initiated with.
type CallbackParams struct {
	// State is the value echoed back by the provider.
	State string

	// ExpectedState is the value minted at Initiate, recovered from the
	// caller's read-once storage. Empty means the flow was never started
	// (or already consumed), which is a CSRF failure.
	ExpectedState string

	// Code is the authorization code to exchange.
	Code string

	// ProviderError is the provider's "error" query parameter, set when
	// the user denied the request or the provider refused it.
	ProviderError string
}

// Callback completes the flow. Validation runs in a fixed order so the
// cheapest and most security-relevant checks come first: state binding,
// provider denial, code presence, provider resolution, then the two
// upstream calls.
func (s *OAuthService) Callback(ctx context.Context, providerName string, params CallbackParams) (string, error) {
	if params.ExpectedState == "" || params.State == "" ||
		subtle.ConstantTimeCompare([]byte(params.ExpectedState), []byte(params.State)) != 1 {
		return "", ErrCSRFMismatch
	}
	if params.ProviderError != "" {
		return "", fmt.Errorf("%w: %s", ErrProviderDenied, params.ProviderError)
	}
	if params.Code == "" {
		return "", ErrMissingCode
	}

	cfg, err := s.Registry.Get(providerName)
	if err != nil {
		return "", err
	}

	tokens, err := s.Client.ExchangeCode(ctx, cfg, params.Code)
	if err != nil {
		slogx.FromContext(ctx).Warn("authorization code exchange failed",
			slog.String("provider", providerName),
			slogx.Error(err))
		return "", errors.Join(ErrTokenExchangeFailed, err)
	}

	profile, err := s.Client.FetchProfile(ctx, cfg, tokens.AccessToken)
	if err != nil {
		slogx.FromContext(ctx).Warn("provider profile fetch failed",
			slog.String("provider", providerName),
			slogx.Error(err))
		return "", errors.Join(ErrProfileFetchFailed, err)
	}

	ident, err := s.Resolver.Resolve(ctx, providerName, profile, tokens)
	if err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("oauth sign-in",
		slog.String("provider", providerName),
		slog.String("identity_id", ident.ID))

	return s.Tokens.Issue(ident.ID)
}
