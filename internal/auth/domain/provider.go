package domain

// ProviderConfig is the full configuration for one OAuth provider: the
// static endpoint data from the provider table merged with the deployment's
// client credentials.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL    string
	TokenURL   string
	ProfileURL string
	Scopes     []string
}

// ProviderTokens is the transient result of an authorization-code exchange.
type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
}

// ProviderProfile is the transient profile payload fetched from a provider.
// Only the subject id is mandatory; everything else may be absent.
type ProviderProfile struct {
	SubjectID string
	Email     string
	Name      string
}
