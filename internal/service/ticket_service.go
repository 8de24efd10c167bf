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

const ticketListCacheKey = "cache:tickets:list"

// TicketService coordinates ticket workflows: validation, history
// generation, persistence and event publication.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	cache      *listCache
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Redis      *persistence.Redis
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		cache:      newListCache(deps.Redis, deps.CacheTTL, logger),
	}
}

// CreateTicket validates the candidate, assigns identity and the creation
// history entry, and persists the new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, payload validate.TicketCreate) (*domain.Ticket, error) {
	ticket, err := validate.NewTicket(payload)
	if err != nil {
		return nil, mapEntityError("ticket", err)
	}

	now := time.Now().UTC()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.History = []domain.HistoryEntry{history.CreationEntry("Ticket", now)}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, ticketListCacheKey)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			ClientName: ticket.ClientName,
			Component:  ticket.Component,
			Brand:      ticket.Brand,
			Phase:      ticket.Phase,
		},
	})
	return ticket, nil
}

// ListTickets returns all tickets, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	var cached []domain.Ticket
	if s.cache.get(ctx, ticketListCacheKey, &cached) {
		return cached, nil
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, ticketListCacheKey, tickets)
	return tickets, nil
}

// GetTicket fetches a single ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapEntityError("ticket", err)
	}
	return ticket, nil
}

// UpdateTicket applies a partial update: the merged result must satisfy all
// invariants, and one history entry is appended per changed field. A payload
// that changes nothing leaves the stored ticket untouched.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, payload validate.TicketUpdate) (*domain.Ticket, error) {
	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapEntityError("ticket", err)
	}
	merged, supplied, err := validate.MergeTicket(current, payload)
	if err != nil {
		return nil, mapEntityError("ticket", err)
	}

	now := time.Now().UTC()
	entries := history.DiffTicket(current, merged, supplied, now)
	if len(entries) == 0 {
		return current, nil
	}
	merged.History = append(current.History, entries...)

	if err := s.tickets.Update(ctx, merged); err != nil {
		return nil, mapEntityError("ticket", err)
	}
	s.cache.invalidate(ctx, ticketListCacheKey)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		EntityID: merged.ID,
		Payload: events.TicketUpdatedPayload{
			Phase:         merged.Phase,
			ChangedFields: changedFields(entries),
		},
	})
	return merged, nil
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapEntityError("ticket", err)
	}
	s.cache.invalidate(ctx, ticketListCacheKey)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		EntityID: id,
		Payload:  events.TicketDeletedPayload{},
	})
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func changedFields(entries []domain.HistoryEntry) []string {
	fields := make([]string, 0, len(entries))
	for _, entry := range entries {
		fields = append(fields, entry.Field)
	}
	return fields
}
