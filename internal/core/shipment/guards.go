// Package shipment contains the pure business logic for shipment operations.
// Guards are pure functions that evaluate preconditions without side effects.
package shipment

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateShipmentContext provides context for shipment creation guards.
type CreateShipmentContext struct {
	DestinationStore string
	RecipientName    string
}

// ItemMutationContext provides context for adding or removing items.
type ItemMutationContext struct {
	ShipmentID string
	Status     Status
}

// StatusTransitionContext provides context for status change guards.
type StatusTransitionContext struct {
	ShipmentID    string
	CurrentStatus Status
	NewStatus     Status
	ItemCount     int
}

// CanCreateShipment evaluates whether a shipment can be created.
// Rules:
// - Destination store must be non-blank
// - Recipient name must be non-blank
func CanCreateShipment(ctx CreateShipmentContext) GuardResult {
	if strings.TrimSpace(ctx.DestinationStore) == "" {
		return GuardResult{Allowed: false, Reason: "destination store is required"}
	}
	if strings.TrimSpace(ctx.RecipientName) == "" {
		return GuardResult{Allowed: false, Reason: "recipient name is required"}
	}

	return GuardResult{Allowed: true}
}

// CanAddItem evaluates whether an item can be packed into a shipment.
// Rules:
// - Shipment must not be dispatched or completed
func CanAddItem(ctx ItemMutationContext) GuardResult {
	if ctx.Status.ItemsLocked() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot add items to shipment %s (current status: %s)", ctx.ShipmentID, ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRemoveItem evaluates whether an item can be taken out of a shipment.
// Rules:
// - Shipment must not be dispatched or completed
func CanRemoveItem(ctx ItemMutationContext) GuardResult {
	if ctx.Status.ItemsLocked() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot remove items from shipment %s (current status: %s)", ctx.ShipmentID, ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanTransition evaluates an explicit status change.
// Rules:
// - Selesai is terminal
// - Pending only while the shipment holds no items
// - Packing only from Pending/Packing and with at least one item
// - Dikirim only from Packing and with at least one item
// - Selesai only from Dikirim
func CanTransition(ctx StatusTransitionContext) GuardResult {
	if ctx.CurrentStatus.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("shipment %s is already %s", ctx.ShipmentID, StatusSelesai),
		}
	}

	switch ctx.NewStatus {
	case StatusPending:
		if ctx.ItemCount > 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot set shipment %s to %s while it holds %d item(s)", ctx.ShipmentID, StatusPending, ctx.ItemCount),
			}
		}
		if ctx.CurrentStatus != StatusPending {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot move shipment %s back to %s (current status: %s)", ctx.ShipmentID, StatusPending, ctx.CurrentStatus),
			}
		}
	case StatusPacking:
		if ctx.ItemCount == 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot set shipment %s to %s without items", ctx.ShipmentID, StatusPacking),
			}
		}
		if ctx.CurrentStatus != StatusPending && ctx.CurrentStatus != StatusPacking {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot move shipment %s back to %s (current status: %s)", ctx.ShipmentID, StatusPacking, ctx.CurrentStatus),
			}
		}
	case StatusDikirim:
		if ctx.ItemCount == 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot dispatch shipment %s: no items packed", ctx.ShipmentID),
			}
		}
		if ctx.CurrentStatus != StatusPacking {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("can only dispatch shipments in %s (current status: %s)", StatusPacking, ctx.CurrentStatus),
			}
		}
	case StatusSelesai:
		if ctx.CurrentStatus != StatusDikirim {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("can only complete shipments in %s (current status: %s)", StatusDikirim, ctx.CurrentStatus),
			}
		}
	default:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown status %q", ctx.NewStatus),
		}
	}

	return GuardResult{Allowed: true}
}
