// Package provider holds the OAuth provider catalogue and the HTTP client
// used to talk to provider endpoints. Adding a provider is a table entry,
// not new code.
package provider

import (
	"errors"

	"github.com/signetlabs/signet/internal/auth/domain"
)

var (
	ErrUnknownProvider       = errors.New("unknown_provider")
	ErrProviderNotConfigured = errors.New("provider_not_configured")
)

type endpoints struct {
	AuthURL    string
	TokenURL   string
	ProfileURL string
	Scopes     []string
}

// knownProviders is the catalogue of providers this service understands.
// Deployment credentials decide which of these are actually enabled.
var knownProviders = map[string]endpoints{
	"google": {
		AuthURL:    "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:   "https://oauth2.googleapis.com/token",
		ProfileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		Scopes:     []string{"openid", "email", "profile"},
	},
	"github": {
		AuthURL:    "https://github.com/login/oauth/authorize",
		TokenURL:   "https://github.com/login/oauth/access_token",
		ProfileURL: "https://api.github.com/user",
		Scopes:     []string{"user:email"},
	},
}

// Credentials are the per-deployment secrets for one provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Registry resolves a provider name to a fully wired ProviderConfig. It
// distinguishes providers the service has never heard of from providers
// that exist in the catalogue but have no credentials configured.
type Registry struct {
	configs map[string]domain.ProviderConfig
}

func NewRegistry(creds map[string]Credentials) *Registry {
	configs := make(map[string]domain.ProviderConfig, len(creds))
	for name, cred := range creds {
		eps, ok := knownProviders[name]
		if !ok {
			continue
		}
		configs[name] = domain.ProviderConfig{
			Name:         name,
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			RedirectURI:  cred.RedirectURI,
			AuthURL:      eps.AuthURL,
			TokenURL:     eps.TokenURL,
			ProfileURL:   eps.ProfileURL,
			Scopes:       eps.Scopes,
		}
	}
	return &Registry{configs: configs}
}

// Known reports whether name is in the catalogue at all, configured or not.
func Known(name string) bool {
	_, ok := knownProviders[name]
	return ok
}

// Names returns the configured provider names, for logging and readiness.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	return names
}

func (r *Registry) Get(name string) (domain.ProviderConfig, error) {
	cfg, ok := r.configs[name]
	if ok {
		return cfg, nil
	}
	if Known(name) {
		return domain.ProviderConfig{}, ErrProviderNotConfigured
	}
	return domain.ProviderConfig{}, ErrUnknownProvider
}
