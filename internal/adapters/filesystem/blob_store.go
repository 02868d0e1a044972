// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/example/resi/internal/ports/secondary"
)

// BlobStore implements secondary.BlobStore as one file per key under a
// directory. The revision of a blob is the SHA-256 of its content.
type BlobStore struct {
	dir string
	mu  sync.Mutex
}

// NewBlobStore creates a filesystem blob store rooted at dir, creating it if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".resi", "blobs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Dir returns the directory blobs are stored in.
func (s *BlobStore) Dir() string {
	return s.dir
}

// Get reads the blob stored under key.
func (s *BlobStore) Get(ctx context.Context, key string) (*secondary.Blob, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", key, secondary.ErrBlobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return &secondary.Blob{Data: data, Revision: revisionOf(data)}, nil
}

// Put atomically replaces the blob if its content still hashes to expectedRevision.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, expectedRevision string) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if expectedRevision != "" {
			return "", fmt.Errorf("blob %s no longer exists: %w", key, secondary.ErrRevisionConflict)
		}
	case err != nil:
		return "", fmt.Errorf("failed to read blob %s: %w", key, err)
	default:
		if expectedRevision != revisionOf(current) {
			return "", fmt.Errorf("blob %s: %w", key, secondary.ErrRevisionConflict)
		}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return revisionOf(data), nil
}

func (s *BlobStore) pathFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func revisionOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over path, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ secondary.BlobStore = (*BlobStore)(nil)
