package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
)

// InitSigningKeys loads the Ed25519 access token key and publishes it in a
// key set for the verifier and the JWKS endpoint.
//
// With no SigningKeyFile the key is generated on startup and kept only in
// memory, so every access token becomes invalid when the backend restarts.
// Clients recover through the normal refresh flow since sessions live in the
// database.
func InitSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.KeySet, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, fmt.Errorf("failed to publish signing key: %w", err)
	}

	if cfg.SigningKeyFile == "" {
		logger.Info("ephemeral signing key generated", "kid", signer.KID())
	} else {
		logger.Info("signing key loaded", "kid", signer.KID(), "path", cfg.SigningKeyFile)
	}

	return signer, keys, nil
}
