package shipment

import "strings"

// Collection is the full ordered set of shipments, newest first.
// Every method returns a new collection and leaves the receiver untouched.
type Collection []Shipment

// Stats holds per-status counts over a collection.
type Stats struct {
	Total   int
	Pending int
	Packing int
	Dikirim int
	Selesai int
}

// IndexOf returns the position of the shipment with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	for i, s := range c {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Prepend returns a collection with s at the front.
func (c Collection) Prepend(s Shipment) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, s)
	return append(out, c...)
}

// Replace returns a collection with the shipment at index i swapped for s.
func (c Collection) Replace(i int, s Shipment) Collection {
	out := make(Collection, len(c))
	copy(out, c)
	out[i] = s
	return out
}

// Remove returns a collection without the shipment at index i.
func (c Collection) Remove(i int) Collection {
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

// FindByTrackingNumber returns the first shipment whose tracking number
// matches number, ignoring case and surrounding whitespace.
func (c Collection) FindByTrackingNumber(number string) (Shipment, bool) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Shipment{}, false
	}
	for _, s := range c {
		if strings.EqualFold(s.TrackingNumber, number) {
			return s, true
		}
	}
	return Shipment{}, false
}

// Stats counts shipments per status.
func (c Collection) Stats() Stats {
	st := Stats{Total: len(c)}
	for _, s := range c {
		switch s.Status {
		case StatusPending:
			st.Pending++
		case StatusPacking:
			st.Packing++
		case StatusDikirim:
			st.Dikirim++
		case StatusSelesai:
			st.Selesai++
		}
	}
	return st
}
