package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velodesk/repair-service/internal/domain"
	"github.com/velodesk/repair-service/internal/events"
	"github.com/velodesk/repair-service/internal/repository"
	"github.com/velodesk/repair-service/internal/validate"
)

func newWarrantyService(t *testing.T) (*WarrantyService, *eventRecorder) {
	t.Helper()
	rec := newEventRecorder(
		events.EventWarrantyCreated,
		events.EventWarrantyUpdated,
		events.EventWarrantyDeleted,
	)
	svc := NewWarrantyService(WarrantyDependencies{
		WarrantyRepo: repository.NewMemoryWarrantyRepository(),
		Dispatcher:   rec.dispatcher,
	})
	return svc, rec
}

func validWarrantyCreate() validate.WarrantyCreate {
	return validate.WarrantyCreate{
		StartDate:    strPtr("2025-02-10"),
		CustomerName: "Anna Bianchi",
		Email:        "anna@example.com",
		Agent:        "Luca",
		SerialNumber: "SN-1001",
		BikeModel:    "Gravel Pro",
		Size:         "54",
		Problem:      "Cracked seat stay",
	}
}

func TestCreateWarrantyAllocatesProtocolAndForcesPending(t *testing.T) {
	svc, rec := newWarrantyService(t)
	ctx := context.Background()

	payload := validWarrantyCreate()
	payload.Status = strPtr("Completed")

	warranty, err := svc.CreateWarranty(ctx, payload)
	require.NoError(t, err)
	require.NotEmpty(t, warranty.ID)
	require.Equal(t, domain.WarrantyPending, warranty.Status)
	require.Regexp(t, `^OMW-\d{2}-001$`, warranty.ProtocolNumber)

	require.Len(t, warranty.History, 1)
	require.Equal(t, "Warranty", warranty.History[0].Field)
	require.Equal(t, "Created", warranty.History[0].NewValue)
	require.Equal(t, domain.HistoryCreated, warranty.History[0].Action)

	require.Len(t, rec.seen, 1)
	require.Equal(t, events.EventWarrantyCreated, rec.seen[0].Type)
}

func TestCreateWarrantyProtocolNumbersAreSequential(t *testing.T) {
	svc, _ := newWarrantyService(t)
	ctx := context.Background()

	first, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)
	second, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)
	third, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)

	require.Regexp(t, `-001$`, first.ProtocolNumber)
	require.Regexp(t, `-002$`, second.ProtocolNumber)
	require.Regexp(t, `-003$`, third.ProtocolNumber)
}

func TestCreateWarrantyRejectsInvalidPayload(t *testing.T) {
	svc, _ := newWarrantyService(t)

	payload := validWarrantyCreate()
	payload.StartDate = nil
	_, err := svc.CreateWarranty(context.Background(), payload)
	requireDomainError(t, err, "VALIDATION_FAILED")

	listed, err := svc.ListWarranties(context.Background())
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestUpdateWarrantyStatusTransition(t *testing.T) {
	svc, _ := newWarrantyService(t)
	ctx := context.Background()

	created, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)

	updated, err := svc.UpdateWarranty(ctx, created.ID, validate.WarrantyUpdate{
		Status:   strPtr("In Progress"),
		Solution: strPtr("Frame replacement"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.WarrantyInProgress, updated.Status)
	require.Len(t, updated.History, 3)

	// solution precedes status in declaration order
	solutionEntry := updated.History[1]
	require.Equal(t, "Solution", solutionEntry.Field)
	require.Equal(t, domain.HistoryNotSet, *solutionEntry.OldValue)
	require.Equal(t, "Frame replacement", solutionEntry.NewValue)

	statusEntry := updated.History[2]
	require.Equal(t, "Status", statusEntry.Field)
	require.Equal(t, "Pending", *statusEntry.OldValue)
	require.Equal(t, "In Progress", statusEntry.NewValue)

	// protocol number never changes after allocation
	require.Equal(t, created.ProtocolNumber, updated.ProtocolNumber)
}

func TestUpdateWarrantyInvalidStatusLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newWarrantyService(t)
	ctx := context.Background()

	created, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)

	_, err = svc.UpdateWarranty(ctx, created.ID, validate.WarrantyUpdate{
		Status: strPtr("Closed"),
	})
	requireDomainError(t, err, "VALIDATION_FAILED")

	stored, err := svc.GetWarranty(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.WarrantyPending, stored.Status)
	require.Len(t, stored.History, 1)
}

func TestUpdateWarrantyNoop(t *testing.T) {
	svc, rec := newWarrantyService(t)
	ctx := context.Background()

	created, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)

	updated, err := svc.UpdateWarranty(ctx, created.ID, validate.WarrantyUpdate{
		CustomerName: strPtr("Anna Bianchi"),
		Status:       strPtr("Pending"),
	})
	require.NoError(t, err)
	require.Len(t, updated.History, 1)
	require.Len(t, rec.seen, 1)
}

// duplicateProtocolRepo simulates the Postgres unique-violation path on the
// protocol_number column.
type duplicateProtocolRepo struct {
	repository.WarrantyRepository
}

func (duplicateProtocolRepo) Create(context.Context, *domain.Warranty) error {
	return repository.ErrDuplicateProtocol
}

func TestCreateWarrantyProtocolCollisionMapsToConflict(t *testing.T) {
	svc := NewWarrantyService(WarrantyDependencies{
		WarrantyRepo: duplicateProtocolRepo{},
	})

	_, err := svc.CreateWarranty(context.Background(), validWarrantyCreate())
	requireDomainError(t, err, "CONFLICT")
}

func TestDeleteWarranty(t *testing.T) {
	svc, rec := newWarrantyService(t)
	ctx := context.Background()

	created, err := svc.CreateWarranty(ctx, validWarrantyCreate())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWarranty(ctx, created.ID))
	_, err = svc.GetWarranty(ctx, created.ID)
	requireDomainError(t, err, "NOT_FOUND")
	require.Len(t, rec.seen, 2)
	require.Equal(t, events.EventWarrantyDeleted, rec.seen[1].Type)
}
