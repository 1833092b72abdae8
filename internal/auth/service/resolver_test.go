package service_test

import (
	"context"
	"testing"

	"github.com/signetlabs/signet/internal/auth/domain"
	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/signetlabs/signet/pkg/idx"

	"github.com/stretchr/testify/require"
)

func TestIdentityResolver_NewUser(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	resolver := service.NewIdentityResolver(st)
	ctx := context.Background()

	profile := domain.ProviderProfile{SubjectID: "g-1", Email: "Eve@Example.com", Name: "Eve"}
	tokens := domain.ProviderTokens{AccessToken: "at-1", RefreshToken: "rt-1"}

	ident, err := resolver.Resolve(ctx, "google", profile, tokens)
	require.NoError(t, err)
	require.Equal(t, "eve@example.com", ident.Email)
	require.Equal(t, "google", ident.ProviderName)
	require.Equal(t, "g-1", ident.ProviderSubjectID)
	require.False(t, ident.HasCredential())

	stored, err := st.Identities().GetIdentityByProvider(ctx, "google", "g-1")
	require.NoError(t, err)
	require.Equal(t, ident.ID, stored.ID)
	require.Equal(t, "at-1", stored.ProviderAccessToken)
}

func TestIdentityResolver_ReturningUser(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	resolver := service.NewIdentityResolver(st)
	ctx := context.Background()

	profile := domain.ProviderProfile{SubjectID: "g-2", Email: "frank@example.com"}

	first, err := resolver.Resolve(ctx, "google", profile,
		domain.ProviderTokens{AccessToken: "at-old"})
	require.NoError(t, err)

	second, err := resolver.Resolve(ctx, "google", profile,
		domain.ProviderTokens{AccessToken: "at-new", RefreshToken: "rt-new"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	stored, err := st.Identities().GetIdentityByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "at-new", stored.ProviderAccessToken)
	require.Equal(t, "rt-new", stored.ProviderRefreshToken)
}

func TestIdentityResolver_LinksByEmail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	resolver := service.NewIdentityResolver(st)
	ctx := context.Background()

	digest, err := cryptox.HashPassword("local-pass")
	require.NoError(t, err)
	local := domain.Identity{
		ID:               idx.New().String(),
		Email:            "grace@example.com",
		CredentialDigest: digest,
	}
	require.NoError(t, st.Identities().CreateIdentity(ctx, local))

	ident, err := resolver.Resolve(ctx, "github",
		domain.ProviderProfile{SubjectID: "gh-3", Email: "Grace@example.com"},
		domain.ProviderTokens{AccessToken: "at-3"})
	require.NoError(t, err)

	// Same account, now reachable both ways.
	require.Equal(t, local.ID, ident.ID)
	require.True(t, ident.HasCredential())
	require.True(t, ident.HasProviderIdentity())

	stored, err := st.Identities().GetIdentityByProvider(ctx, "github", "gh-3")
	require.NoError(t, err)
	require.Equal(t, local.ID, stored.ID)
}

func TestIdentityResolver_ProfileValidation(t *testing.T) {
	t.Parallel()

	resolver := service.NewIdentityResolver(newTestStore(t))
	ctx := context.Background()

	t.Run("missing subject", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "google",
			domain.ProviderProfile{Email: "x@example.com"}, domain.ProviderTokens{})
		require.ErrorIs(t, err, service.ErrMissingSubjectID)
	})

	t.Run("new user without email", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "google",
			domain.ProviderProfile{SubjectID: "g-9"}, domain.ProviderTokens{})
		require.ErrorIs(t, err, service.ErrMissingEmail)
	})

	t.Run("returning user without email still works", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "google",
			domain.ProviderProfile{SubjectID: "g-10", Email: "heidi@example.com"},
			domain.ProviderTokens{})
		require.NoError(t, err)

		ident, err := resolver.Resolve(ctx, "google",
			domain.ProviderProfile{SubjectID: "g-10"}, domain.ProviderTokens{})
		require.NoError(t, err)
		require.Equal(t, "heidi@example.com", ident.Email)
	})
}
