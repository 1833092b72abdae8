package cryptox_test

import (
	"strings"
	"testing"

	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.Error(t, cryptox.VerifyPassword("wrong password", hash))
}

func TestHashPasswordSaltsDigests(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashPassword("hunter2")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("hunter2")
	require.NoError(t, err)

	// Same password, different salt, different digest.
	require.NotEqual(t, a, b)
	require.NoError(t, cryptox.VerifyPassword("hunter2", a))
	require.NoError(t, cryptox.VerifyPassword("hunter2", b))
}

func TestVerifyPasswordRejectsMalformedDigests(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=3,p=2$short",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=banana$c2FsdA$aGFzaA",
	}

	for _, digest := range cases {
		require.Error(t, cryptox.VerifyPassword("anything", digest), "digest: %q", digest)
	}
}
