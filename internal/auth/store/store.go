package store

import (
	"context"
	"errors"

	"github.com/signetlabs/signet/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories so the surface can
// grow without widening every signature.
type Store interface {
	Identities() Identities

	// ApplyMigrations brings the schema up to date using the driver's
	// embedded migration files.
	ApplyMigrations() error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Identities interface {
	// GetIdentityByID returns an identity by id.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail looks up by normalized email.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// GetIdentityByProvider looks up by (provider_name, provider_subject_id).
	GetIdentityByProvider(ctx context.Context, providerName, subjectID string) (domain.Identity, error)

	// CreateIdentity inserts a new identity (id is provided by the app via
	// ULID). Returns ErrAlreadyExists when the email or provider identity
	// collides with an existing record; callers treat that as "lost the
	// race, re-resolve".
	CreateIdentity(ctx context.Context, ident domain.Identity) error

	// LinkProviderIdentity attaches an OAuth identity (and its provider
	// tokens) to an existing record and bumps updated_at. Returns
	// ErrAlreadyExists when another record already owns the pair.
	LinkProviderIdentity(ctx context.Context, id, providerName, subjectID, accessToken, refreshToken string) error

	// UpdateProviderTokens refreshes the stored provider tokens and bumps
	// updated_at.
	UpdateProviderTokens(ctx context.Context, id, accessToken, refreshToken string) error
}
