package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/resi/internal/adapters/sqlite"
	"github.com/example/resi/internal/ports/secondary"
)

func TestBlobStore_GetMissing(t *testing.T) {
	store := sqlite.NewBlobStore(setupTestDB(t))

	_, err := store.Get(context.Background(), "mitra10_pengiriman")
	if !errors.Is(err, secondary.ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestBlobStore_PutGet(t *testing.T) {
	store := sqlite.NewBlobStore(setupTestDB(t))
	ctx := context.Background()

	rev, err := store.Put(ctx, "k", []byte(`{"version":2}`), "")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if rev != "1" {
		t.Errorf("expected revision 1, got %q", rev)
	}

	blob, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(blob.Data) != `{"version":2}` {
		t.Errorf("unexpected data %q", blob.Data)
	}
	if blob.Revision != rev {
		t.Errorf("expected revision %q, got %q", rev, blob.Revision)
	}

	rev2, err := store.Put(ctx, "k", []byte("second"), rev)
	if err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	if rev2 != "2" {
		t.Errorf("expected revision 2, got %q", rev2)
	}

	blob, _ = store.Get(ctx, "k")
	if string(blob.Data) != "second" || blob.Revision != "2" {
		t.Errorf("unexpected blob after update: %q rev %q", blob.Data, blob.Revision)
	}
}

func TestBlobStore_RevisionConflict(t *testing.T) {
	store := sqlite.NewBlobStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := store.Put(ctx, "k", []byte("a"), ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	tests := []struct {
		name     string
		expected string
	}{
		{"create over existing", ""},
		{"stale revision", "7"},
		{"malformed revision", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Put(ctx, "k", []byte("b"), tt.expected)
			if !errors.Is(err, secondary.ErrRevisionConflict) {
				t.Errorf("expected ErrRevisionConflict, got %v", err)
			}
		})
	}

	blob, _ := store.Get(ctx, "k")
	if string(blob.Data) != "a" {
		t.Errorf("rejected writes must not change data, got %q", blob.Data)
	}

	if _, err := store.Put(ctx, "other", []byte("x"), "1"); !errors.Is(err, secondary.ErrRevisionConflict) {
		t.Errorf("expected ErrRevisionConflict updating a missing key, got %v", err)
	}
}
