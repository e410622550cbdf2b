package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marketplace/backend/internal/application/media"
)

var _ media.ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage writes uploads under a directory served by the HTTP
// server at PublicBaseURL.
type LocalObjectStorage struct {
	root          string
	publicBaseURL string
}

// NewLocalObjectStorage creates the root directory if needed
func NewLocalObjectStorage(root, publicBaseURL string) (*LocalObjectStorage, error) {
	if root == "" {
		return nil, errors.New("storage directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalObjectStorage{
		root:          abs,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Root returns the absolute directory uploads are written to
func (s *LocalObjectStorage) Root() string {
	return s.root
}

func (s *LocalObjectStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes the storage directory", key)
	}
	return p, nil
}

// Put writes the object through a temp file so readers never see a partial file
func (s *LocalObjectStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("store object: %w", err)
	}
	return nil
}

// Delete removes the file. Deleting a missing key is not an error.
func (s *LocalObjectStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (s *LocalObjectStorage) URL(key string) string {
	return s.publicBaseURL + "/" + key
}
