package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

// MaxMediaBytes caps a single upload.
const MaxMediaBytes = 5 << 20

var mediaTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaStore keeps uploaded images on local disk. Files are served by the
// HTTP layer from Dir under BaseURL.
type MediaStore struct {
	Dir     string
	BaseURL string // e.g. "/media/"
}

// NewMediaStore creates dir if needed.
func NewMediaStore(dir, baseURL string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media/"
	}
	return &MediaStore{Dir: dir, BaseURL: baseURL}, nil
}

// Save writes an image and returns its public URL. The content type is
// sniffed from the bytes; the client's claim is ignored.
func (m *MediaStore) Save(ctx context.Context, prefix string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxMediaBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxMediaBytes {
		return "", ErrMediaTooLarge
	}
	if len(data) == 0 {
		return "", ErrUnsupportedMedia
	}

	ext, ok := mediaTypes[http.DetectContentType(data)]
	if !ok {
		return "", ErrUnsupportedMedia
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	name := prefix + "-" + token + ext

	tmp, err := os.CreateTemp(m.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(m.Dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	slogx.FromContext(ctx).Debug("media stored", slog.String("name", name), slog.Int("bytes", len(data)))
	return path.Join(m.BaseURL, name), nil
}

// Remove deletes a file previously returned by Save. URLs from elsewhere
// are ignored.
func (m *MediaStore) Remove(url string) error {
	dir, name := path.Split(url)
	if name == "" || path.Clean(dir) != path.Clean(m.BaseURL) {
		return nil
	}
	err := os.Remove(filepath.Join(m.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
