package primary

import (
	"context"
	"time"
)

// ShipmentService defines the primary port for shipment operations.
type ShipmentService interface {
	// CreateShipment opens a new Pending shipment with a fresh tracking number.
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (*Shipment, error)

	// GetShipment retrieves a shipment by ID.
	GetShipment(ctx context.Context, shipmentID string) (*Shipment, error)

	// ListShipments lists shipments newest first with optional filters.
	ListShipments(ctx context.Context, filters ShipmentFilters) ([]*Shipment, error)

	// AddItem packs an item into a shipment and moves it to Packing.
	AddItem(ctx context.Context, req AddItemRequest) (*Item, error)

	// RemoveItem takes an item out of a shipment.
	// The shipment returns to Pending when its last item is removed.
	RemoveItem(ctx context.Context, shipmentID, itemID string) error

	// UpdateStatus moves a shipment to the given status, subject to lifecycle rules.
	UpdateStatus(ctx context.Context, shipmentID, status string) error

	// MarkDispatched moves a packed shipment to Dikirim.
	MarkDispatched(ctx context.Context, shipmentID string) error

	// MarkCompleted moves a dispatched shipment to Selesai.
	MarkCompleted(ctx context.Context, shipmentID string) error

	// DeleteShipment removes a shipment entirely.
	DeleteShipment(ctx context.Context, shipmentID string) error

	// FindByTrackingNumber looks a shipment up by tracking number, ignoring case.
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Shipment, error)

	// GetStats counts shipments per status.
	GetStats(ctx context.Context) (*Stats, error)
}

// CreateShipmentRequest contains parameters for creating a shipment.
type CreateShipmentRequest struct {
	DestinationStore string
	RecipientName    string
}

// AddItemRequest contains parameters for packing an item.
type AddItemRequest struct {
	ShipmentID string
	Name       string
	Quantity   int // values below 1 are treated as 1
}

// Shipment represents a shipment at the port boundary.
// Status lifecycle: Pending → Packing → Dikirim → Selesai
type Shipment struct {
	ID               string
	TrackingNumber   string
	DestinationStore string
	RecipientName    string
	Items            []*Item
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Item represents one packed line of goods.
type Item struct {
	ID       string
	Name     string
	Quantity int
	AddedAt  time.Time
}

// ShipmentFilters contains filter options for listing shipments.
type ShipmentFilters struct {
	Status   string
	OpenOnly bool // Pending or Packing, i.e. still accepting items
}

// Stats holds shipment counts per status.
type Stats struct {
	Total   int
	Pending int
	Packing int
	Dikirim int
	Selesai int
}
