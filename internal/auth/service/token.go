package service

import (
	"errors"
	"time"

	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/signetlabs/signet/pkg/idx"
	"github.com/signetlabs/signet/pkg/jwtx"
)

// TokenService issues, verifies, revokes and refreshes the bearer access
// tokens the rest of the system trades in. Tokens are stateless JWTs; the
// only mutable state is the revocation set.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Revoked  RevocationStore

	Issuer string
	TTL    time.Duration

	// nowFn is swappable in tests.
	nowFn func() time.Time
}

func NewTokenService(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	revoked RevocationStore,
	issuer string,
	ttl time.Duration,
) *TokenService {
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	return &TokenService{
		Signer:   signer,
		Verifier: verifier,
		Revoked:  revoked,
		Issuer:   issuer,
		TTL:      ttl,
		nowFn:    time.Now,
	}
}

func (s *TokenService) now() time.Time {
	if s.nowFn != nil {
		return s.nowFn()
	}
	return time.Now()
}

// Issue mints a fresh access token for the given identity id.
func (s *TokenService) Issue(identityID string) (string, error) {
	if identityID == "" {
		return "", ErrInvalidInput
	}

	claims := jwtx.NewAccessClaims(identityID, s.Issuer, s.TTL, s.now())
	return s.Signer.Sign(claims)
}

// Verify authenticates a token and returns the identity id it was issued
// to. The revocation set is consulted before any parsing so a revoked token
// fails fast regardless of its contents.
func (s *TokenService) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrTokenMalformed
	}
	if s.Revoked.Contains(cryptox.FingerprintToken(token)) {
		return "", ErrTokenRevoked
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return "", mapVerifyError(err)
	}

	// The subject must be a well-formed identity id; anything else means
	// the token was minted outside this system.
	if _, err := idx.Parse(claims.Subject); err != nil {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

// Revoke adds the token to the revocation set. The operation is
// unconditional and idempotent: malformed and already-expired tokens are
// accepted too, since revoking them is harmless.
func (s *TokenService) Revoke(token string) {
	if token == "" {
		return
	}

	// Use the token's own expiry to bound how long the set must remember
	// it. When the expiry is unreadable, fall back to the service TTL.
	expiresAt := s.now().Add(s.TTL)
	if claims, err := s.Verifier.Verify(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	s.Revoked.Insert(cryptox.FingerprintToken(token), expiresAt)
}

// Refresh verifies the presented token and issues a replacement for the
// same identity. The old token is left alone; it stays valid until it
// expires unless the caller revokes it explicitly.
func (s *TokenService) Refresh(token string) (string, error) {
	identityID, err := s.Verify(token)
	if err != nil {
		return "", err
	}

	return s.Issue(identityID)
}

func mapVerifyError(err error) error {
	if errors.Is(err, jwtx.ErrExpired) {
		return ErrTokenExpired
	}
	return ErrTokenMalformed
}
