package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/velodesk/repair-service/internal/domain"
)

func newTicket(createdAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:          uuid.NewString(),
		ClientName:  "Mario Rossi",
		ClientEmail: "mario@x.com",
		Component:   "Brake",
		Brand:       "Shimano",
		Phase:       domain.PhaseIntake,
		History:     []domain.HistoryEntry{},
		CreatedAt:   createdAt,
	}
}

func TestMemoryTicketCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	ticket := newTicket(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, ticket))

	fetched, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.ClientName, fetched.ClientName)

	fetched.Brand = "SRAM"
	require.NoError(t, repo.Update(ctx, fetched))
	again, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, "SRAM", again.Brand)

	require.NoError(t, repo.Delete(ctx, ticket.ID))
	_, err = repo.GetByID(ctx, ticket.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, ticket.ID), ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, ticket), ErrNotFound)
}

func TestMemoryTicketListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	oldest := newTicket(base)
	middle := newTicket(base.Add(time.Hour))
	newest := newTicket(base.Add(2 * time.Hour))
	for _, ticket := range []*domain.Ticket{middle, oldest, newest} {
		require.NoError(t, repo.Create(ctx, ticket))
	}

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, newest.ID, listed[0].ID)
	require.Equal(t, middle.ID, listed[1].ID)
	require.Equal(t, oldest.ID, listed[2].ID)
}

func TestMemoryTicketCopyOnRead(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	ticket := newTicket(time.Now().UTC())
	ticket.History = []domain.HistoryEntry{{Field: "Ticket", NewValue: "Created", Action: domain.HistoryCreated}}
	require.NoError(t, repo.Create(ctx, ticket))

	fetched, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	fetched.ClientName = "tampered"
	fetched.History = append(fetched.History, domain.HistoryEntry{Field: "bogus"})

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, "Mario Rossi", stored.ClientName)
	require.Len(t, stored.History, 1)
}

func newWarranty(createdAt time.Time) *domain.Warranty {
	start, _ := domain.ParseDate("2024-05-01")
	return &domain.Warranty{
		ID:           uuid.NewString(),
		StartDate:    start,
		CustomerName: "Anna Bianchi",
		Email:        "anna@x.com",
		Agent:        "Luca",
		SerialNumber: "SN-42",
		BikeModel:    "Gravel Pro",
		Size:         "54",
		Problem:      "Paint defect",
		Status:       domain.WarrantyPending,
		History:      []domain.HistoryEntry{},
		CreatedAt:    createdAt,
	}
}

func TestMemoryWarrantyProtocolAllocation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWarrantyRepository()

	createdAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 1; i <= 4; i++ {
		warranty := newWarranty(createdAt)
		require.NoError(t, repo.Create(ctx, warranty))
		require.Equal(t, fmt.Sprintf("OMW-25-%03d", i), warranty.ProtocolNumber)
		require.False(t, seen[warranty.ProtocolNumber])
		seen[warranty.ProtocolNumber] = true
	}
}

func TestMemoryWarrantyProtocolResetsPerYear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWarrantyRepository()

	w2024 := newWarranty(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, w2024))
	require.Equal(t, "OMW-24-001", w2024.ProtocolNumber)

	w2025 := newWarranty(time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, w2025))
	require.Equal(t, "OMW-25-001", w2025.ProtocolNumber)
}

func TestFormatProtocolNumber(t *testing.T) {
	require.Equal(t, "OMW-25-007", FormatProtocolNumber(2025, 7))
	require.Equal(t, "OMW-09-123", FormatProtocolNumber(2009, 123))
	// sequences past 999 widen instead of wrapping
	require.Equal(t, "OMW-25-1000", FormatProtocolNumber(2025, 1000))
}
