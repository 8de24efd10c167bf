package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/velodesk/repair-service/internal/domain"
)

// The in-memory repositories back tests and DSN-less development runs. They
// mirror the Postgres implementations' observable behavior: newest-first
// listing, per-year protocol sequences, and copy-on-read so callers can
// never mutate stored state in place.

type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	seq     map[string]int
	nextSeq int
}

// NewMemoryTicketRepository builds an empty in-memory ticket store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{
		tickets: make(map[string]*domain.Ticket),
		seq:     make(map[string]int),
	}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	r.seq[ticket.ID] = r.nextSeq
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return ErrNotFound
	}
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTicket(ticket), nil
}

func (r *memoryTicketRepository) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, *cloneTicket(ticket))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return r.seq[result[i].ID] > r.seq[result[j].ID]
	})
	return result, nil
}

func (r *memoryTicketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	delete(r.seq, id)
	return nil
}

type memoryWarrantyRepository struct {
	mu         sync.RWMutex
	warranties map[string]*domain.Warranty
	seq        map[string]int
	nextSeq    int
	counters   map[int]int
}

// NewMemoryWarrantyRepository builds an empty in-memory warranty store.
func NewMemoryWarrantyRepository() WarrantyRepository {
	return &memoryWarrantyRepository{
		warranties: make(map[string]*domain.Warranty),
		seq:        make(map[string]int),
		counters:   make(map[int]int),
	}
}

func (r *memoryWarrantyRepository) Create(_ context.Context, warranty *domain.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	year := warranty.CreatedAt.UTC().Year()
	r.counters[year]++
	warranty.ProtocolNumber = FormatProtocolNumber(year, r.counters[year])
	r.nextSeq++
	r.seq[warranty.ID] = r.nextSeq
	r.warranties[warranty.ID] = cloneWarranty(warranty)
	return nil
}

func (r *memoryWarrantyRepository) Update(_ context.Context, warranty *domain.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.warranties[warranty.ID]; !ok {
		return ErrNotFound
	}
	r.warranties[warranty.ID] = cloneWarranty(warranty)
	return nil
}

func (r *memoryWarrantyRepository) GetByID(_ context.Context, id string) (*domain.Warranty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	warranty, ok := r.warranties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneWarranty(warranty), nil
}

func (r *memoryWarrantyRepository) List(_ context.Context) ([]domain.Warranty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Warranty, 0, len(r.warranties))
	for _, warranty := range r.warranties {
		result = append(result, *cloneWarranty(warranty))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return r.seq[result[i].ID] > r.seq[result[j].ID]
	})
	return result, nil
}

func (r *memoryWarrantyRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.warranties[id]; !ok {
		return ErrNotFound
	}
	delete(r.warranties, id)
	delete(r.seq, id)
	return nil
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.SerialNumber = cloneStringPtr(t.SerialNumber)
	clone.Problem = cloneStringPtr(t.Problem)
	clone.ProtocolNumber = cloneStringPtr(t.ProtocolNumber)
	clone.TrackingNumber = cloneStringPtr(t.TrackingNumber)
	clone.ShippingCompany = cloneStringPtr(t.ShippingCompany)
	if t.ApprovalStatus != nil {
		status := *t.ApprovalStatus
		clone.ApprovalStatus = &status
	}
	if t.ShippingDate != nil {
		d := *t.ShippingDate
		clone.ShippingDate = &d
	}
	if t.CompletionDate != nil {
		d := *t.CompletionDate
		clone.CompletionDate = &d
	}
	clone.Images = append([]string(nil), t.Images...)
	clone.History = append([]domain.HistoryEntry(nil), t.History...)
	return &clone
}

func cloneWarranty(w *domain.Warranty) *domain.Warranty {
	clone := *w
	clone.Observation = cloneStringPtr(w.Observation)
	clone.PaintDetails = cloneStringPtr(w.PaintDetails)
	clone.ComponentsDescription = cloneStringPtr(w.ComponentsDescription)
	clone.Solution = cloneStringPtr(w.Solution)
	clone.Producer = cloneStringPtr(w.Producer)
	clone.NewSerialNumber = cloneStringPtr(w.NewSerialNumber)
	clone.OrderNumber = cloneStringPtr(w.OrderNumber)
	clone.Value = cloneStringPtr(w.Value)
	clone.Invoice = cloneStringPtr(w.Invoice)
	clone.Images = append([]string(nil), w.Images...)
	clone.History = append([]domain.HistoryEntry(nil), w.History...)
	return &clone
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
