package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name tokens are filed under.
const KeyringService = "alumni"

// KeyringStore keeps the token in the OS keyring (Keychain, Secret Service,
// Windows Credential Manager), with the server URL as the account.
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore stores the token for serverURL.
func NewKeyringStore(serverURL string) *KeyringStore {
	return &KeyringStore{service: KeyringService, account: serverURL}
}

func (s *KeyringStore) Save(token string) error {
	if err := keyring.Set(s.service, s.account, token); err != nil {
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(s.service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token from keyring: %w", err)
	}
	return token, nil
}

func (s *KeyringStore) Remove() error {
	err := keyring.Delete(s.service, s.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
