package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func parseKey(t *testing.T, pemBytes []byte) ed25519.PrivateKey {
	t.Helper()

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	ed, ok := key.(ed25519.PrivateKey)
	require.True(t, ok)
	return ed
}

func TestGenerateEd25519Key(t *testing.T) {
	t.Parallel()

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	require.Len(t, parseKey(t, pemBytes), ed25519.PrivateKeySize)
}

func TestLoadOrCreateEd25519Key(t *testing.T) {
	t.Parallel()

	t.Run("persists key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keys", "signing.pem")

		first, err := cryptox.LoadOrCreateEd25519Key(path)
		require.NoError(t, err)
		second, err := cryptox.LoadOrCreateEd25519Key(path)
		require.NoError(t, err)

		require.Equal(t, parseKey(t, first), parseKey(t, second))
	})

	t.Run("empty path is ephemeral", func(t *testing.T) {
		a, err := cryptox.LoadOrCreateEd25519Key("")
		require.NoError(t, err)
		b, err := cryptox.LoadOrCreateEd25519Key("")
		require.NoError(t, err)

		require.NotEqual(t, parseKey(t, a), parseKey(t, b))
	})
}
