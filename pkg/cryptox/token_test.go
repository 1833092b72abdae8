package cryptox_test

import (
	"testing"

	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("produces unique url-safe tokens", func(t *testing.T) {
		a, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		b, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)

		require.Len(t, a, 43)
		require.NotEqual(t, a, b)
		require.NotContains(t, a, "=")
		require.NotContains(t, a, "+")
		require.NotContains(t, a, "/")
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)
		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})
}

func TestFingerprintTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	fp1 := cryptox.FingerprintToken("some-bearer-token")
	fp2 := cryptox.FingerprintToken("some-bearer-token")
	other := cryptox.FingerprintToken("another-token")

	require.Equal(t, fp1, fp2)
	require.NotEqual(t, fp1, other)
	require.Len(t, fp1, 43)
}
