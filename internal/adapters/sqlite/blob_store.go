// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/example/resi/internal/ports/secondary"
)

// BlobStore implements secondary.BlobStore with SQLite.
// Revisions are the row's integer revision counter.
type BlobStore struct {
	db *sql.DB
}

// NewBlobStore creates a new SQLite blob store.
func NewBlobStore(db *sql.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Get retrieves the value stored under key.
func (s *BlobStore) Get(ctx context.Context, key string) (*secondary.Blob, error) {
	var (
		value    []byte
		revision int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT value, revision FROM blobs WHERE key = ?",
		key,
	).Scan(&value, &revision)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("blob %s: %w", key, secondary.ErrBlobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	return &secondary.Blob{Data: value, Revision: strconv.FormatInt(revision, 10)}, nil
}

// Put writes data under key if the stored revision still equals expectedRevision.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, expectedRevision string) (string, error) {
	if data == nil {
		data = []byte{}
	}

	if expectedRevision == "" {
		result, err := s.db.ExecContext(ctx,
			`INSERT INTO blobs (key, value, revision, created_at, updated_at)
			 VALUES (?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO NOTHING`,
			key, data,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert blob: %w", err)
		}
		if err := expectOneRow(result, key); err != nil {
			return "", err
		}
		return "1", nil
	}

	expected, err := strconv.ParseInt(expectedRevision, 10, 64)
	if err != nil {
		return "", fmt.Errorf("blob %s: malformed revision %q: %w", key, expectedRevision, secondary.ErrRevisionConflict)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE blobs SET value = ?, revision = revision + 1, updated_at = CURRENT_TIMESTAMP WHERE key = ? AND revision = ?",
		data, key, expected,
	)
	if err != nil {
		return "", fmt.Errorf("failed to update blob: %w", err)
	}
	if err := expectOneRow(result, key); err != nil {
		return "", err
	}
	return strconv.FormatInt(expected+1, 10), nil
}

func expectOneRow(result sql.Result, key string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("blob %s: %w", key, secondary.ErrRevisionConflict)
	}
	return nil
}

var _ secondary.BlobStore = (*BlobStore)(nil)
