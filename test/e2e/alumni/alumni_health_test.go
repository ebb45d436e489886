package alumni_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL := setupBackend(t, nil)
	client := alumnisdk.NewSDKClient(baseURL)
	ctx := context.Background()

	t.Run("liveness", func(t *testing.T) {
		health, err := client.GetLiveness(ctx)
		assertHealthy(t, health, err)
		require.NotEmpty(t, health.Version)
		t.Logf("Liveness: version=%s uptime=%s", health.Version, health.Uptime)
	})

	t.Run("readiness", func(t *testing.T) {
		health, err := client.GetReadiness(ctx)
		assertHealthy(t, health, err)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
		require.Equal(t, "ok", health.Checks.Signer)
	})

	t.Run("jwks publishes the signing key", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/.well-known/jwks.json")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var jwks jwtx.JWKS
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&jwks))
		require.NotEmpty(t, jwks.Keys)
		require.Equal(t, "OKP", jwks.Keys[0].Kty)
		require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
		t.Logf("JWKS key id: %s", jwks.Keys[0].Kid)
	})
}
