package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velodesk/repair-service/internal/domain"
	"github.com/velodesk/repair-service/internal/events"
	"github.com/velodesk/repair-service/internal/history"
	"github.com/velodesk/repair-service/internal/persistence"
	"github.com/velodesk/repair-service/internal/repository"
	"github.com/velodesk/repair-service/internal/validate"
)

const warrantyListCacheKey = "cache:warranties:list"

// WarrantyService coordinates warranty claim workflows.
type WarrantyService struct {
	warranties repository.WarrantyRepository
	dispatcher events.Dispatcher
	cache      *listCache
}

// WarrantyDependencies bundles collaborators for the warranty service.
type WarrantyDependencies struct {
	WarrantyRepo repository.WarrantyRepository
	Dispatcher   events.Dispatcher
	Redis        *persistence.Redis
	CacheTTL     time.Duration
	Logger       *zap.Logger
}

// NewWarrantyService constructs the service.
func NewWarrantyService(deps WarrantyDependencies) *WarrantyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarrantyService{
		warranties: deps.WarrantyRepo,
		dispatcher: deps.Dispatcher,
		cache:      newListCache(deps.Redis, deps.CacheTTL, logger),
	}
}

// CreateWarranty validates the candidate and persists the new claim. The
// repository allocates the protocol number; client-supplied status is
// ignored and new claims always start Pending.
func (s *WarrantyService) CreateWarranty(ctx context.Context, payload validate.WarrantyCreate) (*domain.Warranty, error) {
	warranty, err := validate.NewWarranty(payload)
	if err != nil {
		return nil, mapEntityError("warranty", err)
	}

	now := time.Now().UTC()
	warranty.ID = uuid.NewString()
	warranty.CreatedAt = now
	warranty.History = []domain.HistoryEntry{history.CreationEntry("Warranty", now)}

	if err := s.warranties.Create(ctx, warranty); err != nil {
		return nil, mapEntityError("warranty", err)
	}
	s.cache.invalidate(ctx, warrantyListCacheKey)
	s.publish(ctx, events.Event{
		Type:     events.EventWarrantyCreated,
		EntityID: warranty.ID,
		Payload: events.WarrantyCreatedPayload{
			ProtocolNumber: warranty.ProtocolNumber,
			CustomerName:   warranty.CustomerName,
			BikeModel:      warranty.BikeModel,
		},
	})
	return warranty, nil
}

// ListWarranties returns all warranties, newest first.
func (s *WarrantyService) ListWarranties(ctx context.Context) ([]domain.Warranty, error) {
	var cached []domain.Warranty
	if s.cache.get(ctx, warrantyListCacheKey, &cached) {
		return cached, nil
	}
	warranties, err := s.warranties.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, warrantyListCacheKey, warranties)
	return warranties, nil
}

// GetWarranty fetches a single warranty by id.
func (s *WarrantyService) GetWarranty(ctx context.Context, id string) (*domain.Warranty, error) {
	warranty, err := s.warranties.GetByID(ctx, id)
	if err != nil {
		return nil, mapEntityError("warranty", err)
	}
	return warranty, nil
}

// UpdateWarranty applies a partial update with per-field history entries.
func (s *WarrantyService) UpdateWarranty(ctx context.Context, id string, payload validate.WarrantyUpdate) (*domain.Warranty, error) {
	current, err := s.warranties.GetByID(ctx, id)
	if err != nil {
		return nil, mapEntityError("warranty", err)
	}
	merged, supplied, err := validate.MergeWarranty(current, payload)
	if err != nil {
		return nil, mapEntityError("warranty", err)
	}

	now := time.Now().UTC()
	entries := history.DiffWarranty(current, merged, supplied, now)
	if len(entries) == 0 {
		return current, nil
	}
	merged.History = append(current.History, entries...)

	if err := s.warranties.Update(ctx, merged); err != nil {
		return nil, mapEntityError("warranty", err)
	}
	s.cache.invalidate(ctx, warrantyListCacheKey)
	s.publish(ctx, events.Event{
		Type:     events.EventWarrantyUpdated,
		EntityID: merged.ID,
		Payload: events.WarrantyUpdatedPayload{
			Status:        merged.Status,
			ChangedFields: changedFields(entries),
		},
	})
	return merged, nil
}

// DeleteWarranty removes a warranty permanently.
func (s *WarrantyService) DeleteWarranty(ctx context.Context, id string) error {
	if err := s.warranties.Delete(ctx, id); err != nil {
		return mapEntityError("warranty", err)
	}
	s.cache.invalidate(ctx, warrantyListCacheKey)
	s.publish(ctx, events.Event{
		Type:     events.EventWarrantyDeleted,
		EntityID: id,
		Payload:  events.WarrantyDeletedPayload{},
	})
	return nil
}

func (s *WarrantyService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
