// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBlobNotFound is returned by BlobStore.Get when the key holds no value.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrRevisionConflict is returned when a write was based on a stale revision.
	ErrRevisionConflict = errors.New("revision conflict")

	// ErrUnsupportedPayload is returned when a stored payload cannot be decoded
	// into the current shipment schema.
	ErrUnsupportedPayload = errors.New("unsupported shipment payload")
)

// ShipmentRepository defines the secondary port for shipment persistence.
// The collection is always read and written as a whole.
type ShipmentRepository interface {
	// Load retrieves the whole collection, newest first, with its revision.
	// A store that has never been written returns an empty snapshot.
	Load(ctx context.Context) (*ShipmentSnapshot, error)

	// Save replaces the whole collection. expectedRevision must equal the
	// revision last observed, otherwise ErrRevisionConflict is returned.
	// Returns the new revision.
	Save(ctx context.Context, shipments []*ShipmentRecord, expectedRevision string) (string, error)
}

// ShipmentSnapshot is the collection as read from persistence.
type ShipmentSnapshot struct {
	Shipments []*ShipmentRecord
	Revision  string // Empty string means never written
}

// ShipmentRecord represents a shipment as stored in persistence.
type ShipmentRecord struct {
	ID               string
	TrackingNumber   string
	DestinationStore string
	RecipientName    string
	Items            []ItemRecord
	Status           string // Pending, Packing, Dikirim, Selesai
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ItemRecord represents a packed item as stored in persistence.
type ItemRecord struct {
	ID       string
	Name     string
	Quantity int
	AddedAt  time.Time
}

// BlobStore defines the secondary port for a key-value blob medium.
type BlobStore interface {
	// Get retrieves the value under key, or ErrBlobNotFound.
	Get(ctx context.Context, key string) (*Blob, error)

	// Put writes data under key if the stored revision equals
	// expectedRevision (empty meaning the key must not exist yet).
	// Returns the new revision or ErrRevisionConflict.
	Put(ctx context.Context, key string, data []byte, expectedRevision string) (string, error)
}

// Blob is a stored value and the revision it was read at.
type Blob struct {
	Data     []byte
	Revision string
}
