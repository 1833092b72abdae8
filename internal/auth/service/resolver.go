package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/signetlabs/signet/internal/auth/domain"
	"github.com/signetlabs/signet/internal/auth/store"
	"github.com/signetlabs/signet/pkg/idx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// IdentityResolver turns a provider profile into a durable identity. The
// decision order is fixed:
//
//  1. an identity already linked to (provider, subject) logs in,
//  2. an identity with the same email gets the provider linked to it,
//  3. otherwise a new identity is created.
//
// Concurrent callbacks for the same new user can race on the uniqueness
// constraints; losing the race is handled by re-resolving once, at which
// point the winner's record exists and branch 1 or 2 applies.
type IdentityResolver struct {
	Store store.Store
}

func NewIdentityResolver(st store.Store) *IdentityResolver {
	return &IdentityResolver{Store: st}
}

func (r *IdentityResolver) Resolve(
	ctx context.Context,
	providerName string,
	profile domain.ProviderProfile,
	tokens domain.ProviderTokens,
) (domain.Identity, error) {
	if profile.SubjectID == "" {
		return domain.Identity{}, ErrMissingSubjectID
	}

	ident, err := r.resolve(ctx, providerName, profile, tokens)
	if errors.Is(err, store.ErrAlreadyExists) {
		slogx.FromContext(ctx).Debug("identity resolution lost uniqueness race, retrying",
			slog.String("provider", providerName))
		ident, err = r.resolve(ctx, providerName, profile, tokens)
	}
	return ident, err
}

func (r *IdentityResolver) resolve(
	ctx context.Context,
	providerName string,
	profile domain.ProviderProfile,
	tokens domain.ProviderTokens,
) (domain.Identity, error) {
	repo := r.Store.Identities()
	email := NormalizeEmail(profile.Email)

	// Branch 1: returning user.
	ident, err := repo.GetIdentityByProvider(ctx, providerName, profile.SubjectID)
	switch {
	case err == nil:
		// Keep the stored provider tokens current. Failing to do so must
		// not block the login.
		if uerr := repo.UpdateProviderTokens(ctx, ident.ID, tokens.AccessToken, tokens.RefreshToken); uerr != nil {
			slogx.FromContext(ctx).Warn("failed to update provider tokens",
				slog.String("identity_id", ident.ID),
				slogx.Error(uerr))
		} else {
			ident.ProviderAccessToken = tokens.AccessToken
			ident.ProviderRefreshToken = tokens.RefreshToken
		}
		return ident, nil
	case !errors.Is(err, store.ErrNotFound):
		return domain.Identity{}, err
	}

	// Branch 2: link the provider to an existing account with the same
	// email. The email is trusted as verified by the provider.
	if email != "" {
		ident, err = repo.GetIdentityByEmail(ctx, email)
		switch {
		case err == nil:
			if lerr := repo.LinkProviderIdentity(
				ctx, ident.ID, providerName, profile.SubjectID,
				tokens.AccessToken, tokens.RefreshToken,
			); lerr != nil {
				return domain.Identity{}, lerr
			}
			ident.ProviderName = providerName
			ident.ProviderSubjectID = profile.SubjectID
			ident.ProviderAccessToken = tokens.AccessToken
			ident.ProviderRefreshToken = tokens.RefreshToken
			return ident, nil
		case !errors.Is(err, store.ErrNotFound):
			return domain.Identity{}, err
		}
	}

	// Branch 3: first sign-in ever. An email is required to create the
	// account.
	if email == "" {
		return domain.Identity{}, ErrMissingEmail
	}

	ident = domain.Identity{
		ID:                   idx.New().String(),
		Email:                email,
		ProviderName:         providerName,
		ProviderSubjectID:    profile.SubjectID,
		ProviderAccessToken:  tokens.AccessToken,
		ProviderRefreshToken: tokens.RefreshToken,
	}
	if err := repo.CreateIdentity(ctx, ident); err != nil {
		return domain.Identity{}, err
	}
	return ident, nil
}
