package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/signetlabs/signet/internal/auth/domain"
	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/internal/auth/store"
	"github.com/signetlabs/signet/internal/auth/store/drivers/sqlite"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestLocalService_RegisterLogin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	tokens := newTokenService(t)
	svc := service.NewLocalService(st, tokens)
	ctx := context.Background()

	token, err := svc.Register(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	identityID, err := tokens.Verify(token)
	require.NoError(t, err)

	ident, err := st.Identities().GetIdentityByID(ctx, identityID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", ident.Email)
	require.True(t, ident.HasCredential())

	t.Run("login", func(t *testing.T) {
		loginToken, err := svc.Login(ctx, "alice@example.com", "hunter22")
		require.NoError(t, err)

		got, err := tokens.Verify(loginToken)
		require.NoError(t, err)
		require.Equal(t, identityID, got)
	})

	t.Run("email is normalized", func(t *testing.T) {
		_, err := svc.Login(ctx, "  ALICE@Example.Com ", "hunter22")
		require.NoError(t, err)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Register(ctx, "Alice@example.com", "different")
		require.ErrorIs(t, err, service.ErrConflict)
	})
}

func TestLocalService_LoginFailures(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	tokens := newTokenService(t)
	svc := service.NewLocalService(st, tokens)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "correct-horse")
	require.NoError(t, err)

	// Unknown email and wrong password collapse into the same error.
	for name, creds := range map[string][2]string{
		"wrong password": {"bob@example.com", "battery-staple"},
		"unknown email":  {"nobody@example.com", "correct-horse"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, creds[0], creds[1])
			require.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}

	t.Run("oauth-only account", func(t *testing.T) {
		// No credential digest: password login must fail with the same
		// error as a wrong password, not a distinct "no password" one.
		resolver := service.NewIdentityResolver(st)
		_, err := resolver.Resolve(ctx, "google",
			domain.ProviderProfile{SubjectID: "g-77", Email: "mallory@example.com"},
			domain.ProviderTokens{AccessToken: "at"})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "mallory@example.com", "any-password")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("empty fields are input errors", func(t *testing.T) {
		_, err := svc.Login(ctx, "bob@example.com", "")
		require.ErrorIs(t, err, service.ErrInvalidInput)

		_, err = svc.Login(ctx, "", "correct-horse")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestLocalService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc := service.NewLocalService(newTestStore(t), newTokenService(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "password")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Register(ctx, "carol@example.com", "")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Register(ctx, "   ", "password")
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestLocalService_Logout(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	tokens := newTokenService(t)
	svc := service.NewLocalService(st, tokens)
	ctx := context.Background()

	token, err := svc.Register(ctx, "dave@example.com", "pw-123456")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(token))

	_, err = tokens.Verify(token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)

	t.Run("already revoked", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout(token), service.ErrUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout("nope"), service.ErrUnauthenticated)
	})
}
