// Package persistence adapts blob stores to the shipment repository port.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/resi/internal/ports/secondary"
)

// DefaultKey is the blob key the shipment collection lives under.
const DefaultKey = "mitra10_pengiriman"

// payloadVersion is the envelope version written by Save.
const payloadVersion = 2

// BlobShipmentRepository implements secondary.ShipmentRepository on top of a
// BlobStore, keeping the whole collection as one JSON document.
type BlobShipmentRepository struct {
	blobs secondary.BlobStore
	key   string
}

// NewBlobShipmentRepository creates a repository storing under key.
// An empty key falls back to DefaultKey.
func NewBlobShipmentRepository(blobs secondary.BlobStore, key string) *BlobShipmentRepository {
	if key == "" {
		key = DefaultKey
	}
	return &BlobShipmentRepository{blobs: blobs, key: key}
}

// Load reads and decodes the collection.
func (r *BlobShipmentRepository) Load(ctx context.Context) (*secondary.ShipmentSnapshot, error) {
	blob, err := r.blobs.Get(ctx, r.key)
	if errors.Is(err, secondary.ErrBlobNotFound) {
		return &secondary.ShipmentSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.key, err)
	}

	shipments, err := DecodeShipments(blob.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.key, err)
	}
	return &secondary.ShipmentSnapshot{Shipments: shipments, Revision: blob.Revision}, nil
}

// Save encodes and writes the collection if nobody wrote since expectedRevision.
func (r *BlobShipmentRepository) Save(ctx context.Context, shipments []*secondary.ShipmentRecord, expectedRevision string) (string, error) {
	data, err := EncodeShipments(shipments)
	if err != nil {
		return "", err
	}
	revision, err := r.blobs.Put(ctx, r.key, data, expectedRevision)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", r.key, err)
	}
	return revision, nil
}

// Wire format

type envelope struct {
	Version   *int           `json:"version"`
	Shipments []shipmentJSON `json:"shipments"`
}

type shipmentJSON struct {
	ID               string     `json:"id"`
	TrackingNumber   string     `json:"no_resi"`
	DestinationStore string     `json:"tujuan_toko"`
	RecipientName    string     `json:"tanda_terima"`
	Items            []itemJSON `json:"items"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type itemJSON struct {
	ID       string    `json:"id"`
	Name     string    `json:"nama_barang"`
	Quantity int       `json:"jumlah"`
	AddedAt  time.Time `json:"added_at"`
}

// legacyRecord accepts both unversioned shapes. Items is set for item-shaped
// records, ItemName for flat records that carried a single good.
type legacyRecord struct {
	ID               string      `json:"id"`
	TrackingNumber   string      `json:"no_resi"`
	DestinationStore string      `json:"tujuan_toko"`
	RecipientName    string      `json:"tanda_terima"`
	Items            *[]itemJSON `json:"items"`
	ItemName         *string     `json:"nama_barang"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// EncodeShipments renders the collection as a version 2 envelope.
func EncodeShipments(shipments []*secondary.ShipmentRecord) ([]byte, error) {
	version := payloadVersion
	env := envelope{Version: &version, Shipments: make([]shipmentJSON, len(shipments))}
	for i, s := range shipments {
		env.Shipments[i] = fromRecord(s)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipments: %w", err)
	}
	return data, nil
}

// DecodeShipments parses a stored payload, migrating legacy layouts.
// Empty input yields an empty collection.
func DecodeShipments(data []byte) ([]*secondary.ShipmentRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []*secondary.ShipmentRecord{}, nil
	}

	switch data[0] {
	case '{':
		return decodeEnvelope(data)
	case '[':
		return decodeLegacyArray(data)
	default:
		return nil, fmt.Errorf("%w: expected object or array", secondary.ErrUnsupportedPayload)
	}
}

func decodeEnvelope(data []byte) ([]*secondary.ShipmentRecord, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", secondary.ErrUnsupportedPayload, err)
	}
	if env.Version == nil {
		return nil, fmt.Errorf("%w: missing version", secondary.ErrUnsupportedPayload)
	}
	if *env.Version != payloadVersion {
		return nil, fmt.Errorf("%w: version %d", secondary.ErrUnsupportedPayload, *env.Version)
	}

	records := make([]*secondary.ShipmentRecord, len(env.Shipments))
	for i, s := range env.Shipments {
		if err := checkShipped(i, s); err != nil {
			return nil, err
		}
		records[i] = toRecord(s)
	}
	return records, nil
}

// checkShipped rejects a dispatched or completed record that carries no
// goods. No transition can produce one, so it cannot be trusted.
func checkShipped(i int, s shipmentJSON) error {
	if len(s.Items) > 0 {
		return nil
	}
	if s.Status == "Dikirim" || s.Status == "Selesai" {
		return fmt.Errorf("%w: record %d is %s with no items", secondary.ErrUnsupportedPayload, i, s.Status)
	}
	return nil
}

func decodeLegacyArray(data []byte) ([]*secondary.ShipmentRecord, error) {
	var legacy []legacyRecord
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: %w", secondary.ErrUnsupportedPayload, err)
	}

	records := make([]*secondary.ShipmentRecord, len(legacy))
	for i, l := range legacy {
		s := shipmentJSON{
			ID:               l.ID,
			TrackingNumber:   l.TrackingNumber,
			DestinationStore: l.DestinationStore,
			RecipientName:    l.RecipientName,
			Status:           l.Status,
			CreatedAt:        l.CreatedAt,
			UpdatedAt:        l.UpdatedAt,
		}
		switch {
		case l.Items != nil:
			s.Items = *l.Items
		case l.ItemName != nil:
			if strings.TrimSpace(*l.ItemName) == "" {
				return nil, fmt.Errorf("%w: record %d has a blank nama_barang", secondary.ErrUnsupportedPayload, i)
			}
			s.Items = []itemJSON{{
				ID:       l.ID + "-1",
				Name:     *l.ItemName,
				Quantity: 1,
				AddedAt:  l.CreatedAt,
			}}
			// Flat records always carried goods, so Pending meant "packed".
			if s.Status == "Pending" {
				s.Status = "Packing"
			}
		default:
			return nil, fmt.Errorf("%w: record %d has neither items nor nama_barang", secondary.ErrUnsupportedPayload, i)
		}
		if err := checkShipped(i, s); err != nil {
			return nil, err
		}
		records[i] = toRecord(s)
	}
	return records, nil
}

func toRecord(s shipmentJSON) *secondary.ShipmentRecord {
	r := &secondary.ShipmentRecord{
		ID:               s.ID,
		TrackingNumber:   s.TrackingNumber,
		DestinationStore: s.DestinationStore,
		RecipientName:    s.RecipientName,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Items:            make([]secondary.ItemRecord, len(s.Items)),
	}
	for i, it := range s.Items {
		r.Items[i] = secondary.ItemRecord{ID: it.ID, Name: it.Name, Quantity: it.Quantity, AddedAt: it.AddedAt}
	}
	return r
}

func fromRecord(r *secondary.ShipmentRecord) shipmentJSON {
	s := shipmentJSON{
		ID:               r.ID,
		TrackingNumber:   r.TrackingNumber,
		DestinationStore: r.DestinationStore,
		RecipientName:    r.RecipientName,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Items:            make([]itemJSON, len(r.Items)),
	}
	for i, it := range r.Items {
		s.Items[i] = itemJSON{ID: it.ID, Name: it.Name, Quantity: it.Quantity, AddedAt: it.AddedAt}
	}
	return s
}

var _ secondary.ShipmentRepository = (*BlobShipmentRepository)(nil)
