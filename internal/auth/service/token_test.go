package service_test

import (
	"testing"
	"time"

	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/pkg/idx"
	"github.com/signetlabs/signet/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

const testIssuer = "signet-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTokenService(t *testing.T) *service.TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, testIssuer, 0)

	return service.NewTokenService(
		signer, verifier, service.NewMemoryRevocationStore(), testIssuer, time.Hour,
	)
}

func TestTokenService_IssueVerify(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)
	identityID := idx.New().String()

	token, err := svc.Issue(identityID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, identityID, got)

	t.Run("empty identity", func(t *testing.T) {
		_, err := svc.Issue("")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestTokenService_VerifyFailures(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-jwt")
		require.ErrorIs(t, err, service.ErrTokenMalformed)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Verify("")
		require.ErrorIs(t, err, service.ErrTokenMalformed)
	})

	t.Run("expired", func(t *testing.T) {
		claims := jwtx.NewAccessClaims(
			idx.New().String(), testIssuer, time.Minute, time.Now().Add(-time.Hour),
		)
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherSigner, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		token, err := otherSigner.Sign(
			jwtx.NewAccessClaims(idx.New().String(), testIssuer, time.Hour, time.Now()),
		)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, service.ErrTokenMalformed)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(
			jwtx.NewAccessClaims(idx.New().String(), "someone-else", time.Hour, time.Now()),
		)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, service.ErrTokenMalformed)
	})

	t.Run("subject is not an identity id", func(t *testing.T) {
		token, err := signer.Sign(
			jwtx.NewAccessClaims("12345", testIssuer, time.Hour, time.Now()),
		)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.ErrorIs(t, err, service.ErrTokenMalformed)
	})
}

func TestTokenService_Revoke(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)

	token, err := svc.Issue(idx.New().String())
	require.NoError(t, err)

	svc.Revoke(token)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, service.ErrTokenRevoked)

	t.Run("idempotent", func(t *testing.T) {
		svc.Revoke(token)
		_, err := svc.Verify(token)
		require.ErrorIs(t, err, service.ErrTokenRevoked)
	})

	t.Run("accepts garbage", func(t *testing.T) {
		svc.Revoke("complete-garbage")
		_, err := svc.Verify("complete-garbage")
		require.ErrorIs(t, err, service.ErrTokenRevoked)
	})
}

func TestTokenService_Refresh(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t)
	identityID := idx.New().String()

	oldToken, err := svc.Issue(identityID)
	require.NoError(t, err)

	newToken, err := svc.Refresh(oldToken)
	require.NoError(t, err)
	require.NotEqual(t, oldToken, newToken)

	// Both verify until the old one expires or is revoked explicitly.
	got, err := svc.Verify(newToken)
	require.NoError(t, err)
	require.Equal(t, identityID, got)

	got, err = svc.Verify(oldToken)
	require.NoError(t, err)
	require.Equal(t, identityID, got)

	t.Run("revoked token cannot refresh", func(t *testing.T) {
		svc.Revoke(oldToken)
		_, err := svc.Refresh(oldToken)
		require.ErrorIs(t, err, service.ErrTokenRevoked)
	})

	t.Run("expired token cannot refresh", func(t *testing.T) {
		signer, err := jwtx.NewSignerHS256(testSecret)
		require.NoError(t, err)
		expired, err := signer.Sign(jwtx.NewAccessClaims(
			idx.New().String(), testIssuer, time.Minute, time.Now().Add(-time.Hour),
		))
		require.NoError(t, err)

		_, err = svc.Refresh(expired)
		require.ErrorIs(t, err, service.ErrTokenExpired)
	})

	t.Run("garbage cannot refresh", func(t *testing.T) {
		_, err := svc.Refresh("nope")
		require.ErrorIs(t, err, service.ErrTokenMalformed)
	})
}

func TestMemoryRevocationStore_Prune(t *testing.T) {
	t.Parallel()

	rs := service.NewMemoryRevocationStore()
	now := time.Now()

	rs.Insert("fp-old", now.Add(-time.Minute))
	rs.Insert("fp-live", now.Add(time.Hour))
	require.Equal(t, 2, rs.Len())

	removed := rs.PruneExpired(now)
	require.Equal(t, 1, removed)
	require.False(t, rs.Contains("fp-old"))
	require.True(t, rs.Contains("fp-live"))
}
