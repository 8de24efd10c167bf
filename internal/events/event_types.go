package events

import (
	"time"

	"github.com/velodesk/repair-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketUpdated   EventType = "ticket_updated"
	EventTicketDeleted   EventType = "ticket_deleted"
	EventWarrantyCreated EventType = "warranty_created"
	EventWarrantyUpdated EventType = "warranty_updated"
	EventWarrantyDeleted EventType = "warranty_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientName string             `json:"client_name"`
	Component  string             `json:"component"`
	Brand      string             `json:"brand"`
	Phase      domain.TicketPhase `json:"phase"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Phase         domain.TicketPhase `json:"phase"`
	ChangedFields []string           `json:"changed_fields"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct{}

// WarrantyCreatedPayload payload.
type WarrantyCreatedPayload struct {
	ProtocolNumber string `json:"protocol_number"`
	CustomerName   string `json:"customer_name"`
	BikeModel      string `json:"bike_model"`
}

// WarrantyUpdatedPayload payload.
type WarrantyUpdatedPayload struct {
	Status        domain.WarrantyStatus `json:"status"`
	ChangedFields []string              `json:"changed_fields"`
}

// WarrantyDeletedPayload payload.
type WarrantyDeletedPayload struct{}
