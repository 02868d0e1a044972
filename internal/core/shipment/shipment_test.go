package shipment

import (
	"testing"
	"time"
)

var (
	t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
	t2 = t0.Add(2 * time.Minute)
)

func newPending() Shipment {
	return Shipment{
		ID:               "S-1",
		TrackingNumber:   "M1012345678ABC",
		DestinationStore: "Mitra10 Bintaro",
		RecipientName:    "Ahmad Supardi",
		Status:           StatusPending,
		CreatedAt:        t0,
		UpdatedAt:        t0,
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   Status
		wantOK bool
	}{
		{"Pending", StatusPending, true},
		{"packing", StatusPacking, true},
		{" DIKIRIM ", StatusDikirim, true},
		{"selesai", StatusSelesai, true},
		{"shipped", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAddItem_MovesToPacking(t *testing.T) {
	s := newPending()

	next := AddItem(s, Item{ID: "I-1", Name: "Semen Tiga Roda 50kg", Quantity: 5, AddedAt: t1}, t1)

	if next.Status != StatusPacking {
		t.Errorf("expected status Packing, got %s", next.Status)
	}
	if len(next.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(next.Items))
	}
	if !next.UpdatedAt.Equal(t1) {
		t.Errorf("expected UpdatedAt %v, got %v", t1, next.UpdatedAt)
	}
	if len(s.Items) != 0 || s.Status != StatusPending {
		t.Error("AddItem mutated its input")
	}
}

func TestAddItem_FloorsQuantity(t *testing.T) {
	for _, q := range []int{0, -3} {
		next := AddItem(newPending(), Item{ID: "I-1", Name: "Paku", Quantity: q}, t1)
		if next.Items[0].Quantity != 1 {
			t.Errorf("quantity %d: expected floor to 1, got %d", q, next.Items[0].Quantity)
		}
	}
}

func TestRemoveItem(t *testing.T) {
	s := AddItem(newPending(), Item{ID: "I-1", Name: "Semen", Quantity: 5}, t1)
	s = AddItem(s, Item{ID: "I-2", Name: "Cat", Quantity: 2}, t1)

	t.Run("keeps packing while items remain", func(t *testing.T) {
		next, ok := RemoveItem(s, "I-1", t2)
		if !ok {
			t.Fatal("expected item to be removed")
		}
		if next.Status != StatusPacking {
			t.Errorf("expected Packing, got %s", next.Status)
		}
		if len(next.Items) != 1 || next.Items[0].ID != "I-2" {
			t.Errorf("unexpected items: %+v", next.Items)
		}
		if len(s.Items) != 2 {
			t.Error("RemoveItem mutated its input")
		}
	})

	t.Run("reverts to pending when emptied", func(t *testing.T) {
		next, _ := RemoveItem(s, "I-1", t2)
		next, _ = RemoveItem(next, "I-2", t2)
		if next.Status != StatusPending {
			t.Errorf("expected Pending, got %s", next.Status)
		}
		if len(next.Items) != 0 {
			t.Errorf("expected no items, got %d", len(next.Items))
		}
	})

	t.Run("unknown item is reported", func(t *testing.T) {
		next, ok := RemoveItem(s, "I-404", t2)
		if ok {
			t.Error("expected ok=false for unknown item")
		}
		if !next.UpdatedAt.Equal(s.UpdatedAt) {
			t.Error("expected unchanged shipment")
		}
	})
}

func TestRemoveThenAdd_IssuesNewIdentity(t *testing.T) {
	s := AddItem(newPending(), Item{ID: "I-1", Name: "Semen", Quantity: 5, AddedAt: t1}, t1)
	s, _ = RemoveItem(s, "I-1", t2)
	s = AddItem(s, Item{ID: "I-2", Name: "Semen", Quantity: 5, AddedAt: t2}, t2)

	if len(s.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(s.Items))
	}
	if s.Items[0].ID == "I-1" || s.Items[0].AddedAt.Equal(t1) {
		t.Error("expected re-added item to carry new id and timestamp")
	}
}

func TestSetStatus(t *testing.T) {
	s := AddItem(newPending(), Item{ID: "I-1", Name: "Semen", Quantity: 1}, t1)
	next := SetStatus(s, StatusDikirim, t2)
	if next.Status != StatusDikirim || !next.UpdatedAt.Equal(t2) {
		t.Errorf("unexpected result: %s at %v", next.Status, next.UpdatedAt)
	}
	if s.Status != StatusPacking {
		t.Error("SetStatus mutated its input")
	}
}

func TestNormalize(t *testing.T) {
	packed := AddItem(newPending(), Item{ID: "I-1", Name: "Semen", Quantity: 1}, t1)

	tests := []struct {
		name string
		in   Shipment
		want Status
	}{
		{"pending with items becomes packing", SetStatus(packed, StatusPending, t1), StatusPacking},
		{"packing without items becomes pending", SetStatus(newPending(), StatusPacking, t1), StatusPending},
		{"consistent packing unchanged", packed, StatusPacking},
		{"dispatched left alone", SetStatus(newPending(), StatusDikirim, t1), StatusDikirim},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in).Status; got != tt.want {
				t.Errorf("Normalize status = %s, want %s", got, tt.want)
			}
		})
	}
}
