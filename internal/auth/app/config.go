package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/signetlabs/signet/internal/auth/provider"
	"github.com/signetlabs/signet/pkg/jwtx"
)

// Config is everything the process reads from its environment.
type Config struct {
	Env       string
	LogLevel  string
	LogFormat string

	Port                string
	ShutdownGracePeriod time.Duration

	Issuer      string
	TokenSecret []byte
	TokenTTL    time.Duration

	DatabaseFile string

	HousekeepingInterval time.Duration

	SecureCookies bool

	// Providers holds credentials for each configured OAuth provider,
	// keyed by provider name.
	Providers map[string]provider.Credentials
}

// LoadConfig reads configuration from environment variables. Only the token
// secret is mandatory; everything else has a development-friendly default.
func LoadConfig() (Config, error) {
	cfg := Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Port: getEnvOrDefault("PORT", "8080"),

		Issuer:       getEnvOrDefault("AUTH_ISSUER", "signet"),
		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "signet.db"),
	}

	secret := os.Getenv("AUTH_TOKEN_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	if len(secret) < jwtx.MinSecretLength {
		return Config{}, fmt.Errorf("AUTH_TOKEN_SECRET must be at least %d bytes", jwtx.MinSecretLength)
	}
	cfg.TokenSecret = []byte(secret)

	var err error
	if cfg.TokenTTL, err = getEnvDuration("AUTH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownGracePeriod, err = getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.HousekeepingInterval, err = getEnvDuration("HOUSEKEEPING_INTERVAL", 5*time.Minute); err != nil {
		return Config{}, err
	}

	cfg.SecureCookies = cfg.Env != "dev"
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.SecureCookies = v == "true" || v == "1"
	}

	if cfg.Providers, err = loadProviderCredentials("google", "github"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadProviderCredentials reads OAUTH_<NAME>_CLIENT_ID, _CLIENT_SECRET and
// _REDIRECT_URI per provider. A provider with none of the three set is
// simply disabled; a partially configured provider is a startup error, not
// a silently broken login flow.
func loadProviderCredentials(names ...string) (map[string]provider.Credentials, error) {
	creds := make(map[string]provider.Credentials)

	for _, name := range names {
		prefix := "OAUTH_" + strings.ToUpper(name)
		clientID := os.Getenv(prefix + "_CLIENT_ID")
		clientSecret := os.Getenv(prefix + "_CLIENT_SECRET")
		redirectURI := os.Getenv(prefix + "_REDIRECT_URI")

		if clientID == "" && clientSecret == "" && redirectURI == "" {
			continue
		}
		if clientID == "" || clientSecret == "" || redirectURI == "" {
			return nil, fmt.Errorf(
				"provider %q is partially configured: %s_CLIENT_ID, %s_CLIENT_SECRET and %s_REDIRECT_URI must all be set",
				name, prefix, prefix, prefix)
		}

		creds[name] = provider.Credentials{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURI:  redirectURI,
		}
	}

	return creds, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
