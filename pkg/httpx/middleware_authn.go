package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

// SessionChecker reports whether the session an access token was minted for
// is still active. A nil checker skips the lookup.
type SessionChecker func(r *http.Request, sessionID string) bool

// AuthnMiddleware requires a valid bearer access token. Any failure answers
// 401, which is what makes the client refresh.
func AuthnMiddleware(v jwtx.Verifier, active SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Debug("jwt verify failed", "err", err)
				return
			}

			if active != nil && !active(r, claims.SID) {
				writeBearerError(w, "session revoked")
				return
			}

			ctx = slogx.With(ctx, "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims)))
		})
	}
}

// writeBearerError writes an RFC 6750 challenge with the JSON error body the
// SDK parses.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, ErrorBody{
		Error:   "unauthorized",
		Message: desc,
	})
}
