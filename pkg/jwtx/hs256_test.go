package jwtx_test

import (
	"testing"
	"time"

	"github.com/signetlabs/signet/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignerRejectsShortSecrets(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerHS256([]byte("too short"))
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, "signet-auth", 0)

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims("01K0000000000000000000SUBJ", "signet-auth", time.Hour, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01K0000000000000000000SUBJ", got.Subject)
	require.Equal(t, "signet-auth", got.Issuer)
	require.NotEmpty(t, got.ID, "jti should be set")
	require.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt.Time, time.Second)
}

func TestVerifyClassifiesFailures(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, "signet-auth", 0)

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("subj", "signet-auth", time.Hour, time.Now().Add(-2*time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		claims := jwtx.NewAccessClaims("subj", "signet-auth", time.Hour, time.Now())
		token, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("subj", "someone-else", time.Hour, time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("", "signet-auth", time.Hour, time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrNoSubject)
	})
}
