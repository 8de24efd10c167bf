// Package history computes the audit-log entries appended when an entity is
// created or updated. It is pure: callers load the old state, apply the
// validated patch, and hand both snapshots here together with the list of
// attribute keys the caller actually supplied.
package history

import (
	"strings"
	"time"

	"github.com/velodesk/repair-service/internal/domain"
)

// CreatedMarker is the NewValue recorded on the synthetic creation entry.
const CreatedMarker = "Created"

// CreationEntry builds the single history entry every entity starts with.
// entityLabel is the entity-type display name ("Ticket" or "Warranty").
func CreationEntry(entityLabel string, now time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		Field:    entityLabel,
		OldValue: nil,
		NewValue: CreatedMarker,
		Date:     now,
		Action:   domain.HistoryCreated,
	}
}

// DiffTicket returns one entry per supplied attribute whose normalized value
// differs between old and updated, in schema declaration order. All entries
// share the same timestamp. Attributes not in supplied are ignored even if
// the snapshots disagree on them.
func DiffTicket(old, updated *domain.Ticket, supplied []string, now time.Time) []domain.HistoryEntry {
	keys := keySet(supplied)
	var entries []domain.HistoryEntry
	for _, f := range ticketFields {
		if !keys[f.key] {
			continue
		}
		if entry, changed := compare(f.label, f.value(old), f.value(updated), now); changed {
			entries = append(entries, entry)
		}
	}
	return entries
}

// DiffWarranty is the warranty counterpart of DiffTicket.
func DiffWarranty(old, updated *domain.Warranty, supplied []string, now time.Time) []domain.HistoryEntry {
	keys := keySet(supplied)
	var entries []domain.HistoryEntry
	for _, f := range warrantyFields {
		if !keys[f.key] {
			continue
		}
		if entry, changed := compare(f.label, f.value(old), f.value(updated), now); changed {
			entries = append(entries, entry)
		}
	}
	return entries
}

// compare emits an entry only when the normalized forms differ. Values are
// compared as strings: "07" and "7" are different values on purpose.
func compare(label, oldVal, newVal string, now time.Time) (domain.HistoryEntry, bool) {
	if oldVal == newVal {
		return domain.HistoryEntry{}, false
	}
	old := oldVal
	return domain.HistoryEntry{
		Field:    label,
		OldValue: &old,
		NewValue: newVal,
		Date:     now,
		Action:   domain.HistoryUpdated,
	}, true
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

type ticketField struct {
	key   string
	label string
	value func(*domain.Ticket) string
}

type warrantyField struct {
	key   string
	label string
	value func(*domain.Warranty) string
}

// ticketFields lists ticket attributes in schema declaration order with
// their display labels and normalized accessors.
var ticketFields = []ticketField{
	{"clientName", "Client Name", func(t *domain.Ticket) string { return fromString(t.ClientName) }},
	{"clientEmail", "Client Email", func(t *domain.Ticket) string { return fromString(t.ClientEmail) }},
	{"component", "Component", func(t *domain.Ticket) string { return fromString(t.Component) }},
	{"brand", "Brand", func(t *domain.Ticket) string { return fromString(t.Brand) }},
	{"serialNumber", "Serial Number", func(t *domain.Ticket) string { return fromStringPtr(t.SerialNumber) }},
	{"problem", "Problem", func(t *domain.Ticket) string { return fromStringPtr(t.Problem) }},
	{"protocolNumber", "Protocol Number", func(t *domain.Ticket) string { return fromStringPtr(t.ProtocolNumber) }},
	{"approvalStatus", "Approval Status", func(t *domain.Ticket) string {
		if t.ApprovalStatus == nil {
			return domain.HistoryNotSet
		}
		return fromString(string(*t.ApprovalStatus))
	}},
	{"phase", "Phase", func(t *domain.Ticket) string { return fromString(string(t.Phase)) }},
	{"shippingDate", "Shipping Date", func(t *domain.Ticket) string { return fromDate(t.ShippingDate) }},
	{"trackingNumber", "Tracking Number", func(t *domain.Ticket) string { return fromStringPtr(t.TrackingNumber) }},
	{"shippingCompany", "Shipping Company", func(t *domain.Ticket) string { return fromStringPtr(t.ShippingCompany) }},
	{"completionDate", "Completion Date", func(t *domain.Ticket) string { return fromDate(t.CompletionDate) }},
	{"images", "Images", func(t *domain.Ticket) string { return fromStrings(t.Images) }},
}

// warrantyFields mirrors the warranty schema declaration order.
var warrantyFields = []warrantyField{
	{"startDate", "Start Date", func(w *domain.Warranty) string { d := w.StartDate; return fromDate(&d) }},
	{"customerName", "Customer Name", func(w *domain.Warranty) string { return fromString(w.CustomerName) }},
	{"email", "Email", func(w *domain.Warranty) string { return fromString(w.Email) }},
	{"agent", "Agent", func(w *domain.Warranty) string { return fromString(w.Agent) }},
	{"serialNumber", "Serial Number", func(w *domain.Warranty) string { return fromString(w.SerialNumber) }},
	{"bikeModel", "Bike Model", func(w *domain.Warranty) string { return fromString(w.BikeModel) }},
	{"size", "Size", func(w *domain.Warranty) string { return fromString(w.Size) }},
	{"problem", "Problem", func(w *domain.Warranty) string { return fromString(w.Problem) }},
	{"observation", "Observation", func(w *domain.Warranty) string { return fromStringPtr(w.Observation) }},
	{"paintDetails", "Paint Details", func(w *domain.Warranty) string { return fromStringPtr(w.PaintDetails) }},
	{"componentsDescription", "Components Description", func(w *domain.Warranty) string { return fromStringPtr(w.ComponentsDescription) }},
	{"solution", "Solution", func(w *domain.Warranty) string { return fromStringPtr(w.Solution) }},
	{"producer", "Producer", func(w *domain.Warranty) string { return fromStringPtr(w.Producer) }},
	{"newSerialNumber", "New Serial Number", func(w *domain.Warranty) string { return fromStringPtr(w.NewSerialNumber) }},
	{"orderNumber", "Order Number", func(w *domain.Warranty) string { return fromStringPtr(w.OrderNumber) }},
	{"value", "Value", func(w *domain.Warranty) string { return fromStringPtr(w.Value) }},
	{"invoice", "Invoice", func(w *domain.Warranty) string { return fromStringPtr(w.Invoice) }},
	{"status", "Status", func(w *domain.Warranty) string { return fromString(string(w.Status)) }},
	{"images", "Images", func(w *domain.Warranty) string { return fromStrings(w.Images) }},
}

func fromString(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.HistoryNotSet
	}
	return s
}

func fromStringPtr(s *string) string {
	if s == nil {
		return domain.HistoryNotSet
	}
	return fromString(*s)
}

// fromDate drops any time-of-day component so timestamps on the same
// calendar day compare equal.
func fromDate(d *domain.Date) string {
	if d == nil {
		return domain.HistoryNotSet
	}
	return d.String()
}

func fromStrings(values []string) string {
	if len(values) == 0 {
		return domain.HistoryNotSet
	}
	return strings.Join(values, ", ")
}
