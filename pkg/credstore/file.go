package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/alumni"
	configFile = "credentials.yaml"
)

// credentialsFile is the on-disk layout.
type credentialsFile struct {
	Servers map[string]entry `yaml:"servers"`
}

type entry struct {
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"saved_at"`
}

// FileStore keeps tokens in a YAML file readable only by the owner.
type FileStore struct {
	path      string
	serverURL string

	mu sync.Mutex
}

// DefaultPath returns ~/.config/alumni/credentials.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir, configFile), nil
}

// NewFileStore stores the token for serverURL in the file at path.
func NewFileStore(path, serverURL string) *FileStore {
	return &FileStore{path: path, serverURL: serverURL}
}

// Path is the file backing the store.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	creds.Servers[s.serverURL] = entry{Token: token, SavedAt: time.Now().UTC()}
	return s.write(creds)
}

func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return "", err
	}
	return creds.Servers[s.serverURL].Token, nil
}

// Remove deletes this server's token. The file goes away with the last one.
func (s *FileStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := creds.Servers[s.serverURL]; !ok {
		return nil
	}
	delete(creds.Servers, s.serverURL)

	if len(creds.Servers) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete credentials file: %w", err)
		}
		return nil
	}
	return s.write(creds)
}

func (s *FileStore) read() (*credentialsFile, error) {
	creds := &credentialsFile{Servers: map[string]entry{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return creds, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if err := yaml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if creds.Servers == nil {
		creds.Servers = map[string]entry{}
	}
	return creds, nil
}

func (s *FileStore) write(creds *credentialsFile) error {
	return writeYAML(s.path, ".credentials-*.yaml", creds)
}

// writeYAML replaces the file at path atomically so a crash never leaves
// half a token. The file is readable only by the owner.
func writeYAML(path, pattern string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}
