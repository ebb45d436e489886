package credstore

import (
	"fmt"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

// Backend names accepted by Open.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// Open returns the store for backend. path is only used by the file backend
// and defaults to DefaultPath.
func Open(backend, path, serverURL string) (alumnisdk.CredentialStore, error) {
	switch backend {
	case "", BackendFile:
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path, serverURL), nil
	case BackendKeyring:
		return NewKeyringStore(serverURL), nil
	case BackendMemory:
		return alumnisdk.NewMemoryStore(""), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q (want %s or %s)", backend, BackendFile, BackendKeyring)
	}
}
