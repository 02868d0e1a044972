package persistence

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/resi/internal/ports/secondary"
)

// memBlobStore is an in-memory secondary.BlobStore with integer revisions.
type memBlobStore struct {
	data     map[string][]byte
	revision map[string]int
	getErr   error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{data: map[string][]byte{}, revision: map[string]int{}}
}

func (m *memBlobStore) Get(ctx context.Context, key string) (*secondary.Blob, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	d, ok := m.data[key]
	if !ok {
		return nil, secondary.ErrBlobNotFound
	}
	return &secondary.Blob{Data: d, Revision: strconv.Itoa(m.revision[key])}, nil
}

func (m *memBlobStore) Put(ctx context.Context, key string, data []byte, expectedRevision string) (string, error) {
	current := ""
	if _, ok := m.data[key]; ok {
		current = strconv.Itoa(m.revision[key])
	}
	if current != expectedRevision {
		return "", secondary.ErrRevisionConflict
	}
	m.data[key] = append([]byte(nil), data...)
	m.revision[key]++
	return strconv.Itoa(m.revision[key]), nil
}

func sampleRecords() []*secondary.ShipmentRecord {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return []*secondary.ShipmentRecord{
		{
			ID:               "b2",
			TrackingNumber:   "M1012345678ABC",
			DestinationStore: "Mitra10 Bintaro",
			RecipientName:    "Ahmad Supardi",
			Status:           "Packing",
			CreatedAt:        created,
			UpdatedAt:        created.Add(time.Minute),
			Items: []secondary.ItemRecord{
				{ID: "i1", Name: "Semen Tiga Roda 50kg", Quantity: 5, AddedAt: created.Add(time.Minute)},
			},
		},
		{
			ID:               "a1",
			TrackingNumber:   "M1012345600XYZ",
			DestinationStore: "Mitra10 Cibubur",
			RecipientName:    "Budi",
			Status:           "Pending",
			CreatedAt:        created.Add(-time.Hour),
			UpdatedAt:        created.Add(-time.Hour),
			Items:            []secondary.ItemRecord{},
		},
	}
}

func TestBlobShipmentRepository_LoadEmpty(t *testing.T) {
	repo := NewBlobShipmentRepository(newMemBlobStore(), "")

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Shipments)
	assert.Empty(t, snap.Revision)
}

func TestBlobShipmentRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newMemBlobStore()
	repo := NewBlobShipmentRepository(store, "")

	rev, err := repo.Save(ctx, sampleRecords(), "")
	require.NoError(t, err)
	assert.Equal(t, "1", rev)
	assert.Contains(t, store.data, DefaultKey)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rev, snap.Revision)
	require.Len(t, snap.Shipments, 2)
	assert.Equal(t, "b2", snap.Shipments[0].ID, "order must be preserved")
	assert.Equal(t, "Semen Tiga Roda 50kg", snap.Shipments[0].Items[0].Name)
	assert.Equal(t, 5, snap.Shipments[0].Items[0].Quantity)
	assert.True(t, sampleRecords()[0].UpdatedAt.Equal(snap.Shipments[0].UpdatedAt))
}

func TestBlobShipmentRepository_StaleRevision(t *testing.T) {
	ctx := context.Background()
	repo := NewBlobShipmentRepository(newMemBlobStore(), "custom")

	_, err := repo.Save(ctx, sampleRecords(), "")
	require.NoError(t, err)

	_, err = repo.Save(ctx, sampleRecords(), "")
	assert.ErrorIs(t, err, secondary.ErrRevisionConflict)
}

func TestBlobShipmentRepository_ReadError(t *testing.T) {
	store := newMemBlobStore()
	store.getErr = errors.New("disk gone")
	repo := NewBlobShipmentRepository(store, "")

	_, err := repo.Load(context.Background())
	assert.ErrorContains(t, err, "disk gone")
}

func TestEncodeShipments_WireFormat(t *testing.T) {
	data, err := EncodeShipments(sampleRecords()[:1])
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"version": 2,
		"shipments": [{
			"id": "b2",
			"no_resi": "M1012345678ABC",
			"tujuan_toko": "Mitra10 Bintaro",
			"tanda_terima": "Ahmad Supardi",
			"items": [{"id": "i1", "nama_barang": "Semen Tiga Roda 50kg", "jumlah": 5, "added_at": "2026-03-01T08:01:00Z"}],
			"status": "Packing",
			"created_at": "2026-03-01T08:00:00Z",
			"updated_at": "2026-03-01T08:01:00Z"
		}]
	}`, string(data))
}

func TestDecodeShipments(t *testing.T) {
	t.Run("empty payload", func(t *testing.T) {
		records, err := DecodeShipments([]byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("flat legacy records gain one item", func(t *testing.T) {
		payload := `[{"id":"old-1","no_resi":"M10123","nama_barang":"Keramik 40x40",
			"tujuan_toko":"Mitra10 Depok","tanda_terima":"Citra","status":"Pending",
			"created_at":"2024-05-01T10:00:00.000Z","updated_at":"2024-05-01T10:00:00.000Z"},
			{"id":"old-2","no_resi":"M10456","nama_barang":"Cat","tujuan_toko":"Mitra10 Depok",
			"tanda_terima":"Citra","status":"Dikirim",
			"created_at":"2024-05-02T10:00:00.000Z","updated_at":"2024-05-02T11:00:00.000Z"}]`

		records, err := DecodeShipments([]byte(payload))
		require.NoError(t, err)
		require.Len(t, records, 2)

		first := records[0]
		assert.Equal(t, "Packing", first.Status)
		require.Len(t, first.Items, 1)
		assert.Equal(t, "old-1-1", first.Items[0].ID)
		assert.Equal(t, "Keramik 40x40", first.Items[0].Name)
		assert.Equal(t, 1, first.Items[0].Quantity)
		assert.True(t, first.Items[0].AddedAt.Equal(first.CreatedAt))

		assert.Equal(t, "Dikirim", records[1].Status)
	})

	t.Run("unversioned item-shaped records", func(t *testing.T) {
		payload := `[{"id":"x","no_resi":"M10","tujuan_toko":"T","tanda_terima":"R","items":[],
			"status":"Pending","created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]`

		records, err := DecodeShipments([]byte(payload))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].Items)
		assert.Equal(t, "Pending", records[0].Status)
	})

	unsupported := map[string]string{
		"future version":   `{"version":3,"shipments":[]}`,
		"missing version":  `{"shipments":[]}`,
		"scalar":           `"hello"`,
		"malformed json":   `{"version":2,`,
		"unknown record":   `[{"id":"x"}]`,
		"array of numbers": `[1,2,3]`,
		"dispatched without items": `{"version":2,"shipments":[{"id":"x","no_resi":"M10","tujuan_toko":"T",
			"tanda_terima":"R","items":[],"status":"Dikirim"}]}`,
		"completed without items": `{"version":2,"shipments":[{"id":"x","no_resi":"M10","tujuan_toko":"T",
			"tanda_terima":"R","status":"Selesai"}]}`,
		"legacy dispatched without items": `[{"id":"x","no_resi":"M10","tujuan_toko":"T","tanda_terima":"R",
			"items":[],"status":"Dikirim"}]`,
		"blank legacy item name": `[{"id":"x","no_resi":"M10","nama_barang":"  ","tujuan_toko":"T",
			"tanda_terima":"R","status":"Pending"}]`,
	}
	for name, payload := range unsupported {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeShipments([]byte(payload))
			assert.ErrorIs(t, err, secondary.ErrUnsupportedPayload)
		})
	}
}
