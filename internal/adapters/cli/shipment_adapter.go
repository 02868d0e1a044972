// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	coreshipment "github.com/example/resi/internal/core/shipment"
	"github.com/example/resi/internal/ports/primary"
	"github.com/example/resi/internal/ports/secondary"
)

// ShipmentAdapter is a thin adapter that translates CLI operations to ShipmentService calls.
// It depends only on the ShipmentService interface, enabling easy testing with mocks.
type ShipmentAdapter struct {
	service primary.ShipmentService
	out     io.Writer
	now     func() time.Time
}

// NewShipmentAdapter creates a new ShipmentAdapter with the given service.
func NewShipmentAdapter(service primary.ShipmentService, out io.Writer) *ShipmentAdapter {
	return &ShipmentAdapter{
		service: service,
		out:     out,
		now:     time.Now,
	}
}

// Create opens a new shipment.
func (a *ShipmentAdapter) Create(ctx context.Context, destination, recipient string) error {
	sh, err := a.service.CreateShipment(ctx, primary.CreateShipmentRequest{
		DestinationStore: destination,
		RecipientName:    recipient,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created shipment %s to %s (id %s)\n", sh.TrackingNumber, sh.DestinationStore, sh.ID)
	return nil
}

// AddItem packs an item into the shipment identified by ref.
func (a *ShipmentAdapter) AddItem(ctx context.Context, ref, name string, quantity int) error {
	id, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	item, err := a.service.AddItem(ctx, primary.AddItemRequest{
		ShipmentID: id,
		Name:       name,
		Quantity:   quantity,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Added %s x%d (item %s)\n", item.Name, item.Quantity, item.ID)
	return nil
}

// RemoveItem takes an item out of the shipment identified by ref.
func (a *ShipmentAdapter) RemoveItem(ctx context.Context, ref, itemID string) error {
	id, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.RemoveItem(ctx, id, itemID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Removed item %s\n", itemID)
	return nil
}

// Dispatch marks the shipment as sent.
func (a *ShipmentAdapter) Dispatch(ctx context.Context, ref string) error {
	return a.transition(ctx, ref, a.service.MarkDispatched, "dispatched")
}

// Complete marks the shipment as received.
func (a *ShipmentAdapter) Complete(ctx context.Context, ref string) error {
	return a.transition(ctx, ref, a.service.MarkCompleted, "completed")
}

// SetStatus moves the shipment to an explicit status.
func (a *ShipmentAdapter) SetStatus(ctx context.Context, ref, status string) error {
	id, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Shipment %s is now %s\n", ref, status)
	return nil
}

// Delete removes the shipment.
func (a *ShipmentAdapter) Delete(ctx context.Context, ref string) error {
	id, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.DeleteShipment(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Shipment %s deleted\n", ref)
	return nil
}

// List lists shipments newest first.
func (a *ShipmentAdapter) List(ctx context.Context, status string, openOnly bool) error {
	shipments, err := a.service.ListShipments(ctx, primary.ShipmentFilters{
		Status:   status,
		OpenOnly: openOnly,
	})
	if err != nil {
		return fmt.Errorf("failed to list shipments: %w", err)
	}

	if len(shipments) == 0 {
		fmt.Fprintln(a.out, "No shipments found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-16s %-9s %5s  %-22s %-18s %s\n", "RESI", "STATUS", "QTY", "TUJUAN", "PENERIMA", "UPDATED")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────")
	for _, sh := range shipments {
		fmt.Fprintf(a.out, "%-16s %s %5d  %-22s %-18s %s\n",
			sh.TrackingNumber,
			statusBadge(sh.Status),
			totalQuantity(sh),
			truncate(sh.DestinationStore, 22),
			truncate(sh.RecipientName, 18),
			humanize.RelTime(sh.UpdatedAt, a.now(), "ago", "from now"),
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single shipment.
func (a *ShipmentAdapter) Show(ctx context.Context, ref string) (*primary.Shipment, error) {
	id, err := a.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	sh, err := a.service.GetShipment(ctx, id)
	if err != nil {
		return nil, err
	}

	a.printShipment(sh)
	return sh, nil
}

// Track looks a shipment up by tracking number only, as a store would.
func (a *ShipmentAdapter) Track(ctx context.Context, trackingNumber string) error {
	sh, err := a.service.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return err
	}

	a.printShipment(sh)
	return nil
}

// Stats prints the per-status counters.
func (a *ShipmentAdapter) Stats(ctx context.Context) error {
	st, err := a.service.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Fprintf(a.out, "Total:   %s\n", humanize.Comma(int64(st.Total)))
	fmt.Fprintf(a.out, "%s %d\n", statusBadge(string(coreshipment.StatusPending)), st.Pending)
	fmt.Fprintf(a.out, "%s %d\n", statusBadge(string(coreshipment.StatusPacking)), st.Packing)
	fmt.Fprintf(a.out, "%s %d\n", statusBadge(string(coreshipment.StatusDikirim)), st.Dikirim)
	fmt.Fprintf(a.out, "%s %d\n", statusBadge(string(coreshipment.StatusSelesai)), st.Selesai)
	return nil
}

// Resolve turns a shipment id or tracking number into a shipment id.
func (a *ShipmentAdapter) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: shipment id or tracking number is required", primary.ErrValidation)
	}
	if !coreshipment.LooksLikeTrackingNumber(ref) {
		return ref, nil
	}
	sh, err := a.service.FindByTrackingNumber(ctx, ref)
	if err != nil {
		return "", err
	}
	return sh.ID, nil
}

func (a *ShipmentAdapter) transition(ctx context.Context, ref string, fn func(context.Context, string) error, verb string) error {
	id, err := a.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := fn(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Shipment %s %s\n", ref, verb)
	return nil
}

func (a *ShipmentAdapter) printShipment(sh *primary.Shipment) {
	fmt.Fprintf(a.out, "\nResi:     %s\n", sh.TrackingNumber)
	fmt.Fprintf(a.out, "ID:       %s\n", sh.ID)
	fmt.Fprintf(a.out, "Status:   %s\n", statusBadge(sh.Status))
	fmt.Fprintf(a.out, "Tujuan:   %s\n", sh.DestinationStore)
	fmt.Fprintf(a.out, "Penerima: %s\n", sh.RecipientName)
	fmt.Fprintf(a.out, "Created:  %s (%s)\n", sh.CreatedAt.Format("2006-01-02 15:04"), humanize.RelTime(sh.CreatedAt, a.now(), "ago", "from now"))
	fmt.Fprintf(a.out, "Updated:  %s\n", humanize.RelTime(sh.UpdatedAt, a.now(), "ago", "from now"))

	if len(sh.Items) == 0 {
		fmt.Fprintln(a.out, "Items:    (none)")
	} else {
		fmt.Fprintf(a.out, "Items:    %d line(s), %d unit(s)\n", len(sh.Items), totalQuantity(sh))
		for _, it := range sh.Items {
			fmt.Fprintf(a.out, "  - %s x%d  [%s]\n", it.Name, it.Quantity, it.ID)
		}
	}
	fmt.Fprintln(a.out)
}

// UserMessage converts a service error into a line for the operator.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, primary.ErrNotFound):
		return fmt.Sprintf("Not found: %s", err)
	case errors.Is(err, primary.ErrValidation):
		return fmt.Sprintf("Invalid input: %s", strings.TrimPrefix(err.Error(), primary.ErrValidation.Error()+": "))
	case errors.Is(err, primary.ErrInvalidTransition):
		return fmt.Sprintf("Not allowed: %s", strings.TrimPrefix(err.Error(), primary.ErrInvalidTransition.Error()+": "))
	case errors.Is(err, secondary.ErrRevisionConflict):
		return "Data was changed by another session; reloaded, please retry"
	case errors.Is(err, secondary.ErrUnsupportedPayload):
		return fmt.Sprintf("Stored data is in an unsupported format: %s", err)
	case errors.Is(err, primary.ErrPersistence):
		return fmt.Sprintf("Could not save data: %s", err)
	default:
		return err.Error()
	}
}

func statusBadge(status string) string {
	label := fmt.Sprintf("%-9s", status)
	switch coreshipment.Status(status) {
	case coreshipment.StatusPending:
		return color.New(color.FgYellow).Sprint(label)
	case coreshipment.StatusPacking:
		return color.New(color.FgCyan).Sprint(label)
	case coreshipment.StatusDikirim:
		return color.New(color.FgBlue).Sprint(label)
	case coreshipment.StatusSelesai:
		return color.New(color.FgGreen).Sprint(label)
	default:
		return label
	}
}

func totalQuantity(sh *primary.Shipment) int {
	total := 0
	for _, it := range sh.Items {
		total += it.Quantity
	}
	return total
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
