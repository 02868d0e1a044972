package shipment

import (
	"strings"
	"time"
)

// Status is the lifecycle stage of a shipment.
type Status string

// Lifecycle: Pending → Packing → Dikirim → Selesai.
const (
	StatusPending Status = "Pending"
	StatusPacking Status = "Packing"
	StatusDikirim Status = "Dikirim"
	StatusSelesai Status = "Selesai"
)

// AllStatuses lists the statuses in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusPacking, StatusDikirim, StatusSelesai}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further mutation is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusSelesai
}

// ItemsLocked reports whether the item list is frozen.
func (s Status) ItemsLocked() bool {
	return s == StatusDikirim || s == StatusSelesai
}

// Item is one line of goods packed into a shipment.
type Item struct {
	ID       string
	Name     string
	Quantity int
	AddedAt  time.Time
}

// Shipment is one consignment from the distribution center to a store.
type Shipment struct {
	ID               string
	TrackingNumber   string
	DestinationStore string
	RecipientName    string
	Items            []Item
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns a copy that shares no item storage with s.
func (s Shipment) Clone() Shipment {
	c := s
	if s.Items != nil {
		c.Items = make([]Item, len(s.Items))
		copy(c.Items, s.Items)
	}
	return c
}

// NormalizeQuantity floors a requested quantity at 1.
func NormalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// AddItem returns a copy of s with item appended and status set to Packing.
func AddItem(s Shipment, item Item, now time.Time) Shipment {
	next := s.Clone()
	item.Quantity = NormalizeQuantity(item.Quantity)
	next.Items = append(next.Items, item)
	next.Status = StatusPacking
	next.UpdatedAt = now
	return next
}

// RemoveItem returns a copy of s without the item with the given id.
// The second result is false when no such item exists, in which case s is
// returned unchanged. Status falls back to Pending once the last item is gone.
func RemoveItem(s Shipment, itemID string, now time.Time) (Shipment, bool) {
	idx := -1
	for i, it := range s.Items {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, false
	}

	next := s.Clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	if len(next.Items) == 0 {
		next.Status = StatusPending
	}
	next.UpdatedAt = now
	return next, true
}

// SetStatus returns a copy of s with the new status.
func SetStatus(s Shipment, status Status, now time.Time) Shipment {
	next := s.Clone()
	next.Status = status
	next.UpdatedAt = now
	return next
}

// Normalize realigns the status of an open shipment with its item count.
// Dispatched and completed shipments are returned unchanged.
func Normalize(s Shipment) Shipment {
	switch {
	case s.Status == StatusPending && len(s.Items) > 0:
		s.Status = StatusPacking
	case s.Status == StatusPacking && len(s.Items) == 0:
		s.Status = StatusPending
	}
	return s
}
