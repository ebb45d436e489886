package http

import (
	"net/http"

	"github.com/aussiebroadwan/alumni/pkg/httpx"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
)

// JWKSHandler exposes the public half of the access-token signing key.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
