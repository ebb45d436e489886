package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, "alumni", []string{"alumni"})

	mint := func(t *testing.T, issued time.Time) string {
		t.Helper()
		token, err := signer.Sign(jwtx.NewAccessClaims(jwtx.AccessParams{
			UserID:    "usr_1",
			SessionID: "ses_1",
			Issuer:    "alumni",
			Audience:  []string{"alumni"},
			TTL:       time.Minute,
		}, issued))
		require.NoError(t, err)
		return token
	}

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"user":    httpx.UserIDFromContext(r.Context()),
			"session": httpx.SessionIDFromContext(r.Context()),
		})
	})

	serve := func(active httpx.SessionChecker, authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		httpx.AuthnMiddleware(verifier, active)(echo).ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token reaches the handler", func(t *testing.T) {
		t.Parallel()
		rec := serve(nil, "Bearer "+mint(t, time.Now()))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "usr_1", body["user"])
		require.Equal(t, "ses_1", body["session"])
	})

	for name, authz := range map[string]string{
		"missing header": "",
		"basic scheme":   "Basic dXNlcjpwYXNz",
		"garbage token":  "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rec := serve(nil, authz)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
		})
	}

	t.Run("expired token is refused", func(t *testing.T) {
		t.Parallel()
		rec := serve(nil, "Bearer "+mint(t, time.Now().Add(-time.Hour)))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked session is refused", func(t *testing.T) {
		t.Parallel()
		revoked := func(_ *http.Request, sid string) bool { return sid != "ses_1" }
		rec := serve(revoked, "Bearer "+mint(t, time.Now()))
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "unauthorized", body.Error)
		require.Equal(t, "session revoked", body.Message)
	})
}
