package domain

import "time"

// TicketPhase enumerates repair workflow phases.
type TicketPhase string

const (
	PhaseIntake     TicketPhase = "Intake"
	PhaseShipped    TicketPhase = "Shipped"
	PhaseProcessing TicketPhase = "Processing"
	PhaseCompleted  TicketPhase = "Completed"
)

// ApprovalStatus enumerates warranty-approval outcomes on a ticket.
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// Ticket is the aggregate for component repair requests. History is embedded
// and owned exclusively by the ticket; it is appended to only by the update
// path and never reordered.
type Ticket struct {
	ID              string          `json:"id"`
	ClientName      string          `json:"clientName"`
	ClientEmail     string          `json:"clientEmail"`
	Component       string          `json:"component"`
	Brand           string          `json:"brand"`
	SerialNumber    *string         `json:"serialNumber"`
	Problem         *string         `json:"problem"`
	ProtocolNumber  *string         `json:"protocolNumber"`
	ApprovalStatus  *ApprovalStatus `json:"approvalStatus"`
	Phase           TicketPhase     `json:"phase"`
	ShippingDate    *Date           `json:"shippingDate"`
	TrackingNumber  *string         `json:"trackingNumber"`
	ShippingCompany *string         `json:"shippingCompany"`
	CompletionDate  *Date           `json:"completionDate"`
	Images          []string        `json:"images"`
	History         []HistoryEntry  `json:"history"`
	CreatedAt       time.Time       `json:"createdAt"`
}
