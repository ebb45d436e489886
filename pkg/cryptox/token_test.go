package cryptox

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("lengths", func(t *testing.T) {
		tok, err := GenerateToken(TokenSize128)
		require.NoError(t, err)
		require.Len(t, tok, 22)

		tok, err = GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Len(t, tok, 43)
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			tok := MustGenerateToken(TokenSize128)
			_, dup := seen[tok]
			require.False(t, dup)
			seen[tok] = struct{}{}
		}
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)
	})
}

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	six := regexp.MustCompile(`^\d{6}$`)
	for range 200 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Regexp(t, six, code)
	}

	_, err := GenerateNumericCode(0)
	require.Error(t, err)
	_, err = GenerateNumericCode(19)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("refresh-token")
	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken("refresh-token"))
	require.NotEqual(t, fp, FingerprintToken("refresh-token2"))

	require.True(t, EqualFingerprint("refresh-token", fp))
	require.False(t, EqualFingerprint("other", fp))
}
