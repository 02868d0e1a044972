package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	coreshipment "github.com/example/resi/internal/core/shipment"
	"github.com/example/resi/internal/ctxutil"
	"github.com/example/resi/internal/ports/primary"
	"github.com/example/resi/internal/ports/secondary"
)

// ShipmentServiceImpl implements the ShipmentService interface.
//
// It owns the in-memory collection. Every mutation computes a new collection
// with the pure core functions, persists it as a whole, and only then
// replaces the in-memory copy, so memory always matches the last successful
// save.
type ShipmentServiceImpl struct {
	shipmentRepo secondary.ShipmentRepository
	logger       *zap.Logger
	tracking     *coreshipment.TrackingNumberGenerator
	newID        func() string
	now          func() time.Time

	mu        sync.Mutex
	loaded    bool
	shipments coreshipment.Collection
	revision  string
}

// NewShipmentService creates a new ShipmentService with injected dependencies.
func NewShipmentService(shipmentRepo secondary.ShipmentRepository, logger *zap.Logger) *ShipmentServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentServiceImpl{
		shipmentRepo: shipmentRepo,
		logger:       logger,
		tracking:     coreshipment.NewTrackingNumberGenerator(),
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// CreateShipment opens a new Pending shipment with a fresh tracking number.
func (s *ShipmentServiceImpl) CreateShipment(ctx context.Context, req primary.CreateShipmentRequest) (*primary.Shipment, error) {
	guardCtx := coreshipment.CreateShipmentContext{
		DestinationStore: req.DestinationStore,
		RecipientName:    req.RecipientName,
	}
	if result := coreshipment.CanCreateShipment(guardCtx); !result.Allowed {
		return nil, fmt.Errorf("%w: %s", primary.ErrValidation, result.Reason)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	created := coreshipment.Shipment{
		ID:               s.newID(),
		TrackingNumber:   s.tracking.Next(),
		DestinationStore: strings.TrimSpace(req.DestinationStore),
		RecipientName:    strings.TrimSpace(req.RecipientName),
		Status:           coreshipment.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.commit(ctx, s.shipments.Prepend(created)); err != nil {
		return nil, err
	}

	s.logEvent(ctx, "shipment created", created)
	return toPrimaryShipment(created), nil
}

// GetShipment retrieves a shipment by ID.
func (s *ShipmentServiceImpl) GetShipment(ctx context.Context, shipmentID string) (*primary.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	idx, err := s.indexOf(shipmentID)
	if err != nil {
		return nil, err
	}
	return toPrimaryShipment(s.shipments[idx]), nil
}

// ListShipments lists shipments newest first with optional filters.
func (s *ShipmentServiceImpl) ListShipments(ctx context.Context, filters primary.ShipmentFilters) ([]*primary.Shipment, error) {
	var status coreshipment.Status
	if filters.Status != "" {
		st, ok := coreshipment.ParseStatus(filters.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", primary.ErrValidation, filters.Status)
		}
		status = st
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	shipments := make([]*primary.Shipment, 0, len(s.shipments))
	for _, sh := range s.shipments {
		if status != "" && sh.Status != status {
			continue
		}
		if filters.OpenOnly && sh.Status.ItemsLocked() {
			continue
		}
		shipments = append(shipments, toPrimaryShipment(sh))
	}
	return shipments, nil
}

// AddItem packs an item into a shipment and moves it to Packing.
func (s *ShipmentServiceImpl) AddItem(ctx context.Context, req primary.AddItemRequest) (*primary.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", primary.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	idx, err := s.indexOf(req.ShipmentID)
	if err != nil {
		return nil, err
	}
	current := s.shipments[idx]

	// Guard: items are frozen once dispatched
	guardCtx := coreshipment.ItemMutationContext{ShipmentID: current.ID, Status: current.Status}
	if result := coreshipment.CanAddItem(guardCtx); !result.Allowed {
		return nil, fmt.Errorf("%w: %s", primary.ErrInvalidTransition, result.Reason)
	}

	now := s.now()
	item := coreshipment.Item{
		ID:       s.newID(),
		Name:     name,
		Quantity: coreshipment.NormalizeQuantity(req.Quantity),
		AddedAt:  now,
	}
	updated := coreshipment.AddItem(current, item, now)

	if err := s.commit(ctx, s.shipments.Replace(idx, updated)); err != nil {
		return nil, err
	}

	s.logEvent(ctx, "item added", updated, zap.String("item_id", item.ID), zap.Int("quantity", item.Quantity))
	return toPrimaryItem(item), nil
}

// RemoveItem takes an item out of a shipment.
func (s *ShipmentServiceImpl) RemoveItem(ctx context.Context, shipmentID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}
	idx, err := s.indexOf(shipmentID)
	if err != nil {
		return err
	}
	current := s.shipments[idx]

	guardCtx := coreshipment.ItemMutationContext{ShipmentID: current.ID, Status: current.Status}
	if result := coreshipment.CanRemoveItem(guardCtx); !result.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrInvalidTransition, result.Reason)
	}

	updated, ok := coreshipment.RemoveItem(current, itemID, s.now())
	if !ok {
		return fmt.Errorf("item %s in shipment %s %w", itemID, shipmentID, primary.ErrNotFound)
	}

	if err := s.commit(ctx, s.shipments.Replace(idx, updated)); err != nil {
		return err
	}

	s.logEvent(ctx, "item removed", updated, zap.String("item_id", itemID))
	return nil
}

// UpdateStatus moves a shipment to the given status, subject to lifecycle rules.
func (s *ShipmentServiceImpl) UpdateStatus(ctx context.Context, shipmentID, status string) error {
	newStatus, ok := coreshipment.ParseStatus(status)
	if !ok {
		return fmt.Errorf("%w: unknown status %q", primary.ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}
	idx, err := s.indexOf(shipmentID)
	if err != nil {
		return err
	}
	current := s.shipments[idx]

	guardCtx := coreshipment.StatusTransitionContext{
		ShipmentID:    current.ID,
		CurrentStatus: current.Status,
		NewStatus:     newStatus,
		ItemCount:     len(current.Items),
	}
	if result := coreshipment.CanTransition(guardCtx); !result.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrInvalidTransition, result.Reason)
	}

	updated := coreshipment.SetStatus(current, newStatus, s.now())
	if err := s.commit(ctx, s.shipments.Replace(idx, updated)); err != nil {
		return err
	}

	s.logEvent(ctx, "status updated", updated, zap.String("previous_status", string(current.Status)))
	return nil
}

// MarkDispatched moves a packed shipment to Dikirim.
func (s *ShipmentServiceImpl) MarkDispatched(ctx context.Context, shipmentID string) error {
	return s.UpdateStatus(ctx, shipmentID, string(coreshipment.StatusDikirim))
}

// MarkCompleted moves a dispatched shipment to Selesai.
func (s *ShipmentServiceImpl) MarkCompleted(ctx context.Context, shipmentID string) error {
	return s.UpdateStatus(ctx, shipmentID, string(coreshipment.StatusSelesai))
}

// DeleteShipment removes a shipment entirely.
func (s *ShipmentServiceImpl) DeleteShipment(ctx context.Context, shipmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}
	idx, err := s.indexOf(shipmentID)
	if err != nil {
		return err
	}
	removed := s.shipments[idx]

	if err := s.commit(ctx, s.shipments.Remove(idx)); err != nil {
		return err
	}

	s.logEvent(ctx, "shipment deleted", removed)
	return nil
}

// FindByTrackingNumber looks a shipment up by tracking number, ignoring case.
func (s *ShipmentServiceImpl) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*primary.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	found, ok := s.shipments.FindByTrackingNumber(trackingNumber)
	if !ok {
		return nil, fmt.Errorf("tracking number %q %w", strings.TrimSpace(trackingNumber), primary.ErrNotFound)
	}
	return toPrimaryShipment(found), nil
}

// GetStats counts shipments per status.
func (s *ShipmentServiceImpl) GetStats(ctx context.Context) (*primary.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	st := s.shipments.Stats()
	return &primary.Stats{
		Total:   st.Total,
		Pending: st.Pending,
		Packing: st.Packing,
		Dikirim: st.Dikirim,
		Selesai: st.Selesai,
	}, nil
}

// Helper methods

// load reads the collection from the repository on first use.
// Callers must hold s.mu.
func (s *ShipmentServiceImpl) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	snapshot, err := s.shipmentRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to load shipments: %w", primary.ErrPersistence, err)
	}

	shipments, err := recordsToCollection(snapshot.Shipments)
	if err != nil {
		return fmt.Errorf("%w: failed to load shipments: %w", primary.ErrPersistence, err)
	}

	s.shipments = shipments
	s.revision = snapshot.Revision
	s.loaded = true
	s.logger.Debug("shipments loaded", zap.Int("count", len(shipments)), zap.String("revision", snapshot.Revision))
	return nil
}

// commit persists next and, on success, makes it the current collection.
// On failure the current collection is kept. Callers must hold s.mu.
func (s *ShipmentServiceImpl) commit(ctx context.Context, next coreshipment.Collection) error {
	revision, err := s.shipmentRepo.Save(ctx, collectionToRecords(next), s.revision)
	if err != nil {
		if errors.Is(err, secondary.ErrRevisionConflict) {
			// Someone else wrote the blob; re-read it on the next call.
			s.loaded = false
		}
		s.logger.Warn("save failed, keeping last persisted shipments",
			zap.Error(err),
			zap.String("revision", s.revision),
			zap.String("actor", ctxutil.ActorFromContext(ctx)))
		return fmt.Errorf("%w: failed to save shipments: %w", primary.ErrPersistence, err)
	}

	s.shipments = next
	s.revision = revision
	return nil
}

func (s *ShipmentServiceImpl) indexOf(shipmentID string) (int, error) {
	idx := s.shipments.IndexOf(shipmentID)
	if idx < 0 {
		return -1, fmt.Errorf("shipment %s %w", shipmentID, primary.ErrNotFound)
	}
	return idx, nil
}

func (s *ShipmentServiceImpl) logEvent(ctx context.Context, msg string, sh coreshipment.Shipment, fields ...zap.Field) {
	fields = append(fields,
		zap.String("shipment_id", sh.ID),
		zap.String("tracking_number", sh.TrackingNumber),
		zap.String("status", string(sh.Status)),
		zap.Int("items", len(sh.Items)),
		zap.String("actor", ctxutil.ActorFromContext(ctx)),
	)
	s.logger.Info(msg, fields...)
}

func recordsToCollection(records []*secondary.ShipmentRecord) (coreshipment.Collection, error) {
	out := make(coreshipment.Collection, 0, len(records))
	for _, r := range records {
		status, ok := coreshipment.ParseStatus(r.Status)
		if !ok {
			return nil, fmt.Errorf("shipment %s has unknown status %q", r.ID, r.Status)
		}
		sh := coreshipment.Shipment{
			ID:               r.ID,
			TrackingNumber:   r.TrackingNumber,
			DestinationStore: r.DestinationStore,
			RecipientName:    r.RecipientName,
			Status:           status,
			CreatedAt:        r.CreatedAt,
			UpdatedAt:        r.UpdatedAt,
		}
		for _, it := range r.Items {
			sh.Items = append(sh.Items, coreshipment.Item{
				ID:       it.ID,
				Name:     it.Name,
				Quantity: coreshipment.NormalizeQuantity(it.Quantity),
				AddedAt:  it.AddedAt,
			})
		}
		if len(sh.Items) == 0 && (status == coreshipment.StatusDikirim || status == coreshipment.StatusSelesai) {
			return nil, fmt.Errorf("%w: shipment %s is %s with no items", secondary.ErrUnsupportedPayload, r.ID, status)
		}
		out = append(out, coreshipment.Normalize(sh))
	}
	return out, nil
}

func collectionToRecords(c coreshipment.Collection) []*secondary.ShipmentRecord {
	records := make([]*secondary.ShipmentRecord, len(c))
	for i, sh := range c {
		r := &secondary.ShipmentRecord{
			ID:               sh.ID,
			TrackingNumber:   sh.TrackingNumber,
			DestinationStore: sh.DestinationStore,
			RecipientName:    sh.RecipientName,
			Status:           string(sh.Status),
			CreatedAt:        sh.CreatedAt,
			UpdatedAt:        sh.UpdatedAt,
			Items:            make([]secondary.ItemRecord, len(sh.Items)),
		}
		for j, it := range sh.Items {
			r.Items[j] = secondary.ItemRecord{
				ID:       it.ID,
				Name:     it.Name,
				Quantity: it.Quantity,
				AddedAt:  it.AddedAt,
			}
		}
		records[i] = r
	}
	return records
}

func toPrimaryShipment(sh coreshipment.Shipment) *primary.Shipment {
	out := &primary.Shipment{
		ID:               sh.ID,
		TrackingNumber:   sh.TrackingNumber,
		DestinationStore: sh.DestinationStore,
		RecipientName:    sh.RecipientName,
		Status:           string(sh.Status),
		Items:            make([]*primary.Item, len(sh.Items)),
		CreatedAt:        sh.CreatedAt,
		UpdatedAt:        sh.UpdatedAt,
	}
	for i, it := range sh.Items {
		out.Items[i] = toPrimaryItem(it)
	}
	return out
}

func toPrimaryItem(it coreshipment.Item) *primary.Item {
	return &primary.Item{
		ID:       it.ID,
		Name:     it.Name,
		Quantity: it.Quantity,
		AddedAt:  it.AddedAt,
	}
}

// Ensure ShipmentServiceImpl implements the interface
var _ primary.ShipmentService = (*ShipmentServiceImpl)(nil)
