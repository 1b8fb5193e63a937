// Package storage provides the blob storage collaborator used for certificate
// and background-check file attachments. Backends are addressed by opaque
// string keys; callers never see filesystem paths or bucket names.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// Store is the blob storage interface
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// HashBytes returns the hex-encoded SHA-256 hash of data
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FSStore is a Store backed by a local directory
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem-backed store rooted at dir
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{root: dir}, nil
}

// path resolves a key to a path under the store root, rejecting traversal.
func (s *FSStore) path(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", errors.BadRequest("invalid storage key")
	}
	return filepath.Join(s.root, cleaned), nil
}

// Put writes data under key, creating parent directories as needed
func (s *FSStore) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// Get reads the blob stored under key
func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("file")
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes the blob stored under key. Deleting a missing key is not an
// error.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a blob is stored under key
func (s *FSStore) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
