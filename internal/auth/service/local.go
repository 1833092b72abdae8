package service

import (
	"context"
	"errors"
	"strings"

	"github.com/signetlabs/signet/internal/auth/domain"
	"github.com/signetlabs/signet/internal/auth/store"
	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/signetlabs/signet/pkg/idx"
)

// LocalService handles email/password registration and login. All outcomes
// of a failed login collapse into ErrInvalidCredentials so responses do not
// leak whether an email is registered.
type LocalService struct {
	Store  store.Store
	Tokens *TokenService
}

func NewLocalService(st store.Store, tokens *TokenService) *LocalService {
	return &LocalService{Store: st, Tokens: tokens}
}

// NormalizeEmail is the canonical form emails take before any store
// operation: surrounding whitespace stripped, lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a local identity and signs it in, returning a fresh
// access token.
func (s *LocalService) Register(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		return "", err
	}

	ident := domain.Identity{
		ID:               idx.New().String(),
		Email:            email,
		CredentialDigest: digest,
	}
	if err := s.Store.Identities().CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrConflict
		}
		return "", err
	}

	return s.Tokens.Issue(ident.ID)
}

// Login verifies an email/password pair and returns a fresh access token.
func (s *LocalService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	ident, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	// OAuth-only accounts have no digest and cannot log in locally.
	if !ident.HasCredential() {
		return "", ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, ident.CredentialDigest); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.Tokens.Issue(ident.ID)
}

// Logout revokes the presented token. The token must still verify;
// anything else (expired, already revoked, garbage) reads as not being
// signed in.
func (s *LocalService) Logout(token string) error {
	if _, err := s.Tokens.Verify(token); err != nil {
		return ErrUnauthenticated
	}
	s.Tokens.Revoke(token)
	return nil
}
