// Package preview stores cake preview images in object storage. The images
// themselves come from the design assistant's image generation, which runs
// outside this service; we only persist and serve them.
package preview

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Store persists preview images and returns their public URL.
type Store interface {
	// Put writes an image under key and returns the URL it is served from.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// localStore implements Store on a local directory for environments without
// object storage credentials.
type localStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocalStore creates a directory-backed preview store.
func NewLocalStore(dir, baseURL string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	logger = logger.With().Str("component", "local-preview-store").Logger()
	logger.Info().Str("dir", dir).Msg("local preview store initialised")

	return &localStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Put writes the image to the store directory.
func (l *localStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	path := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create preview subdirectory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}

	l.logger.Debug().Str("key", key).Msg("preview image stored locally")

	return l.baseURL + "/" + key, nil
}
