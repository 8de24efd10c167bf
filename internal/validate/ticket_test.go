package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velodesk/repair-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func validTicketCreate() TicketCreate {
	return TicketCreate{
		ClientName:  "Mario Rossi",
		ClientEmail: "mario@x.com",
		Component:   "Brake",
		Brand:       "Shimano",
		Phase:       "Intake",
	}
}

func requireFieldError(t *testing.T, err error, field string, code Code) {
	t.Helper()
	require.Error(t, err)
	fieldErr, ok := err.(*FieldError)
	require.True(t, ok, "expected *FieldError, got %T", err)
	require.Equal(t, field, fieldErr.Field)
	require.Equal(t, code, fieldErr.Code)
}

func TestNewTicketNormalizes(t *testing.T) {
	payload := validTicketCreate()
	payload.ClientName = "  Mario Rossi  "
	payload.SerialNumber = strPtr("   ")
	payload.Problem = strPtr(" squeaky brake ")
	payload.ShippingDate = strPtr("2024-10-22T00:00:00.000Z")

	ticket, err := NewTicket(payload)
	require.NoError(t, err)
	require.Equal(t, "Mario Rossi", ticket.ClientName)
	require.Nil(t, ticket.SerialNumber)
	require.Equal(t, "squeaky brake", *ticket.Problem)
	require.Equal(t, domain.PhaseIntake, ticket.Phase)
	require.Equal(t, "2024-10-22", ticket.ShippingDate.String())
	require.Nil(t, ticket.CompletionDate)
	require.Nil(t, ticket.ApprovalStatus)
}

func TestNewTicketRequiredFields(t *testing.T) {
	for _, tc := range []struct {
		field  string
		mutate func(*TicketCreate)
	}{
		{"clientName", func(p *TicketCreate) { p.ClientName = "  " }},
		{"clientEmail", func(p *TicketCreate) { p.ClientEmail = "" }},
		{"component", func(p *TicketCreate) { p.Component = "" }},
		{"brand", func(p *TicketCreate) { p.Brand = "" }},
		{"phase", func(p *TicketCreate) { p.Phase = "" }},
	} {
		payload := validTicketCreate()
		tc.mutate(&payload)
		_, err := NewTicket(payload)
		requireFieldError(t, err, tc.field, CodeRequired)
	}
}

func TestNewTicketEmailFormat(t *testing.T) {
	for _, email := range []string{"mario", "mario@", "@x.com", "mario@localhost", "mario rossi@x.com"} {
		payload := validTicketCreate()
		payload.ClientEmail = email
		_, err := NewTicket(payload)
		requireFieldError(t, err, "clientEmail", CodeInvalidFormat)
	}
}

func TestNewTicketEnumChecks(t *testing.T) {
	payload := validTicketCreate()
	payload.Phase = "Archived"
	_, err := NewTicket(payload)
	requireFieldError(t, err, "phase", CodeInvalidEnum)

	payload = validTicketCreate()
	payload.ApprovalStatus = strPtr("Maybe")
	_, err = NewTicket(payload)
	requireFieldError(t, err, "approvalStatus", CodeInvalidEnum)
}

func TestNewTicketInvalidDate(t *testing.T) {
	payload := validTicketCreate()
	payload.ShippingDate = strPtr("22/10/2024")
	_, err := NewTicket(payload)
	requireFieldError(t, err, "shippingDate", CodeInvalidFormat)
}

func TestNewTicketCompletedRequiresApproval(t *testing.T) {
	payload := validTicketCreate()
	payload.Phase = "Completed"
	_, err := NewTicket(payload)
	requireFieldError(t, err, "approvalStatus", CodeMissingConditionalField)

	payload.ApprovalStatus = strPtr("Approved")
	ticket, err := NewTicket(payload)
	require.NoError(t, err)
	require.Equal(t, domain.ApprovalApproved, *ticket.ApprovalStatus)

	// every other phase validates without an approval status
	for _, phase := range []string{"Intake", "Shipped", "Processing"} {
		payload := validTicketCreate()
		payload.Phase = phase
		_, err := NewTicket(payload)
		require.NoError(t, err)
	}
}

func TestMergeTicketEffectivePhaseRule(t *testing.T) {
	current, err := NewTicket(validTicketCreate())
	require.NoError(t, err)

	// submitted phase Completed with no stored or submitted approval
	_, _, err = MergeTicket(current, TicketUpdate{Phase: strPtr("Completed")})
	requireFieldError(t, err, "approvalStatus", CodeMissingConditionalField)

	// submitted approval alongside the phase change passes
	merged, supplied, err := MergeTicket(current, TicketUpdate{
		Phase:          strPtr("Completed"),
		ApprovalStatus: strPtr("Approved"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"approvalStatus", "phase"}, supplied)
	require.Equal(t, domain.PhaseCompleted, merged.Phase)

	// clearing the approval while the stored phase is Completed is rejected
	_, _, err = MergeTicket(merged, TicketUpdate{ApprovalStatus: strPtr("")})
	requireFieldError(t, err, "approvalStatus", CodeMissingConditionalField)
}

func TestMergeTicketDoesNotMutateCurrent(t *testing.T) {
	current, err := NewTicket(validTicketCreate())
	require.NoError(t, err)
	current.History = []domain.HistoryEntry{{Field: "Ticket"}}

	merged, supplied, err := MergeTicket(current, TicketUpdate{Brand: strPtr("SRAM")})
	require.NoError(t, err)
	require.Equal(t, []string{"brand"}, supplied)
	require.Equal(t, "SRAM", merged.Brand)
	require.Equal(t, "Shimano", current.Brand)
	require.Len(t, current.History, 1)
	require.Nil(t, merged.History)
}

func TestMergeTicketSuppliedRequiredFieldMustNotBeEmpty(t *testing.T) {
	current, err := NewTicket(validTicketCreate())
	require.NoError(t, err)

	_, _, err = MergeTicket(current, TicketUpdate{ClientName: strPtr("  ")})
	requireFieldError(t, err, "clientName", CodeRequired)
}

func TestMergeTicketClearsOptionalFields(t *testing.T) {
	payload := validTicketCreate()
	payload.TrackingNumber = strPtr("AB123")
	current, err := NewTicket(payload)
	require.NoError(t, err)

	merged, supplied, err := MergeTicket(current, TicketUpdate{TrackingNumber: strPtr("")})
	require.NoError(t, err)
	require.Equal(t, []string{"trackingNumber"}, supplied)
	require.Nil(t, merged.TrackingNumber)
}
