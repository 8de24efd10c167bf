package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velodesk/repair-service/internal/domain"
	"github.com/velodesk/repair-service/internal/events"
	"github.com/velodesk/repair-service/internal/repository"
	"github.com/velodesk/repair-service/internal/validate"
	apperrors "github.com/velodesk/repair-service/pkg/util"
)

// eventRecorder captures everything published through the dispatcher so tests
// can assert on the event stream.
type eventRecorder struct {
	dispatcher events.Dispatcher
	seen       []events.Event
}

func newEventRecorder(types ...events.EventType) *eventRecorder {
	rec := &eventRecorder{dispatcher: events.NewInMemoryDispatcher(nil)}
	for _, t := range types {
		rec.dispatcher.Subscribe(t, func(_ context.Context, event events.Event) error {
			rec.seen = append(rec.seen, event)
			return nil
		})
	}
	return rec
}

func strPtr(s string) *string { return &s }

func newTicketService(t *testing.T) (*TicketService, *eventRecorder) {
	t.Helper()
	rec := newEventRecorder(
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketDeleted,
	)
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(),
		Dispatcher: rec.dispatcher,
	})
	return svc, rec
}

func validTicketCreate() validate.TicketCreate {
	return validate.TicketCreate{
		ClientName:  "Mario Rossi",
		ClientEmail: "mario@example.com",
		Component:   "Rear Derailleur",
		Brand:       "Shimano",
		Phase:       "Intake",
	}
}

func TestCreateTicketAssignsIdentityAndCreationHistory(t *testing.T) {
	svc, rec := newTicketService(t)

	ticket, err := svc.CreateTicket(context.Background(), validTicketCreate())
	require.NoError(t, err)
	require.NotEmpty(t, ticket.ID)
	require.False(t, ticket.CreatedAt.IsZero())

	require.Len(t, ticket.History, 1)
	entry := ticket.History[0]
	require.Equal(t, "Ticket", entry.Field)
	require.Nil(t, entry.OldValue)
	require.Equal(t, "Created", entry.NewValue)
	require.Equal(t, domain.HistoryCreated, entry.Action)

	require.Len(t, rec.seen, 1)
	require.Equal(t, events.EventTicketCreated, rec.seen[0].Type)
	require.Equal(t, ticket.ID, rec.seen[0].EntityID)
}

func TestCreateTicketRejectsInvalidPayload(t *testing.T) {
	svc, rec := newTicketService(t)

	payload := validTicketCreate()
	payload.ClientEmail = "not-an-email"
	_, err := svc.CreateTicket(context.Background(), payload)
	requireDomainError(t, err, "VALIDATION_FAILED")

	listed, err := svc.ListTickets(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)
	require.Empty(t, rec.seen)
}

func TestUpdateTicketAppendsOneEntryPerChangedField(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	updated, err := svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		Phase:          strPtr("Shipped"),
		TrackingNumber: strPtr("TRK-001"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseShipped, updated.Phase)
	require.Len(t, updated.History, 3)

	phaseEntry := updated.History[1]
	require.Equal(t, "Phase", phaseEntry.Field)
	require.Equal(t, "Intake", *phaseEntry.OldValue)
	require.Equal(t, "Shipped", phaseEntry.NewValue)
	require.Equal(t, domain.HistoryUpdated, phaseEntry.Action)

	trackingEntry := updated.History[2]
	require.Equal(t, "Tracking Number", trackingEntry.Field)
	require.Equal(t, domain.HistoryNotSet, *trackingEntry.OldValue)
	require.Equal(t, "TRK-001", trackingEntry.NewValue)

	// the merged state was persisted, not just returned
	fetched, err := svc.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.History, 3)
	require.Equal(t, domain.PhaseShipped, fetched.Phase)
}

func TestUpdateTicketHistoryIsAppendOnlyAcrossUpdates(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	first, err := svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		Brand: strPtr("SRAM"),
	})
	require.NoError(t, err)
	require.Len(t, first.History, 2)
	afterFirst := append([]domain.HistoryEntry(nil), first.History...)

	second, err := svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		Phase:          strPtr("Shipped"),
		TrackingNumber: strPtr("TRK-099"),
	})
	require.NoError(t, err)
	require.Len(t, second.History, 4)
	// every earlier entry survives each update unchanged
	require.Equal(t, afterFirst, second.History[:2])

	third, err := svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		Problem: strPtr("also shifts poorly"),
	})
	require.NoError(t, err)
	require.Len(t, third.History, 5)
	require.Equal(t, second.History, third.History[:4])
	require.Equal(t, created.History[0], third.History[0])

	fetched, err := svc.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, third.History, fetched.History)
}

func TestUpdateTicketNoopLeavesHistoryUntouched(t *testing.T) {
	svc, rec := newTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	updated, err := svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		ClientName: strPtr("Mario Rossi"),
		Phase:      strPtr("Intake"),
	})
	require.NoError(t, err)
	require.Len(t, updated.History, 1)

	// create event only, no update event for a no-op
	require.Len(t, rec.seen, 1)
}

func TestUpdateTicketRejectedPatchLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	_, err = svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		Phase: strPtr("Completed"),
	})
	requireDomainError(t, err, "VALIDATION_FAILED")

	stored, err := svc.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseIntake, stored.Phase)
	require.Len(t, stored.History, 1)
}

func TestUpdateTicketCompletedWithApproval(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	updated, err := svc.UpdateTicket(ctx, created.ID, validate.TicketUpdate{
		Phase:          strPtr("Completed"),
		ApprovalStatus: strPtr("Approved"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseCompleted, updated.Phase)
	require.NotNil(t, updated.ApprovalStatus)
	require.Len(t, updated.History, 3)

	// approval status precedes phase in declaration order
	require.Equal(t, "Approval Status", updated.History[1].Field)
	require.Equal(t, "Phase", updated.History[2].Field)
}

func TestGetTicketNotFound(t *testing.T) {
	svc, _ := newTicketService(t)
	_, err := svc.GetTicket(context.Background(), "missing")
	requireDomainError(t, err, "NOT_FOUND")
}

func TestDeleteTicket(t *testing.T) {
	svc, rec := newTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTicket(ctx, created.ID))
	_, err = svc.GetTicket(ctx, created.ID)
	requireDomainError(t, err, "NOT_FOUND")
	require.Len(t, rec.seen, 2)
	require.Equal(t, events.EventTicketDeleted, rec.seen[1].Type)

	requireDomainError(t, svc.DeleteTicket(ctx, created.ID), "NOT_FOUND")
}

func TestListTicketsNewestFirst(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)
	second, err := svc.CreateTicket(ctx, validTicketCreate())
	require.NoError(t, err)

	listed, err := svc.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, second.ID, listed[0].ID)
	require.Equal(t, first.ID, listed[1].ID)
}

func requireDomainError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}
