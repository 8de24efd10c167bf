package validate

import (
	"github.com/velodesk/repair-service/internal/domain"
)

// TicketCreate is the full candidate payload for ticket creation.
type TicketCreate struct {
	ClientName      string   `json:"clientName"`
	ClientEmail     string   `json:"clientEmail"`
	Component       string   `json:"component"`
	Brand           string   `json:"brand"`
	SerialNumber    *string  `json:"serialNumber"`
	Problem         *string  `json:"problem"`
	ProtocolNumber  *string  `json:"protocolNumber"`
	ApprovalStatus  *string  `json:"approvalStatus"`
	Phase           string   `json:"phase"`
	ShippingDate    *string  `json:"shippingDate"`
	TrackingNumber  *string  `json:"trackingNumber"`
	ShippingCompany *string  `json:"shippingCompany"`
	CompletionDate  *string  `json:"completionDate"`
	Images          []string `json:"images"`
}

// TicketUpdate is a partial candidate payload; nil fields were not supplied.
// A JSON null is indistinguishable from an absent field here, so clients
// clear an optional field by sending the empty string.
type TicketUpdate struct {
	ClientName      *string   `json:"clientName"`
	ClientEmail     *string   `json:"clientEmail"`
	Component       *string   `json:"component"`
	Brand           *string   `json:"brand"`
	SerialNumber    *string   `json:"serialNumber"`
	Problem         *string   `json:"problem"`
	ProtocolNumber  *string   `json:"protocolNumber"`
	ApprovalStatus  *string   `json:"approvalStatus"`
	Phase           *string   `json:"phase"`
	ShippingDate    *string   `json:"shippingDate"`
	TrackingNumber  *string   `json:"trackingNumber"`
	ShippingCompany *string   `json:"shippingCompany"`
	CompletionDate  *string   `json:"completionDate"`
	Images          *[]string `json:"images"`
}

var ticketPhases = []string{
	string(domain.PhaseIntake),
	string(domain.PhaseShipped),
	string(domain.PhaseProcessing),
	string(domain.PhaseCompleted),
}

var approvalStatuses = []string{
	string(domain.ApprovalApproved),
	string(domain.ApprovalRejected),
}

func parsePhase(value string) (domain.TicketPhase, error) {
	for _, p := range ticketPhases {
		if value == p {
			return domain.TicketPhase(value), nil
		}
	}
	return "", errInvalidEnum("phase", value, ticketPhases)
}

func parseApprovalStatus(value *string) (*domain.ApprovalStatus, error) {
	normalized := optionalString(value)
	if normalized == nil {
		return nil, nil
	}
	for _, s := range approvalStatuses {
		if *normalized == s {
			status := domain.ApprovalStatus(*normalized)
			return &status, nil
		}
	}
	return nil, errInvalidEnum("approvalStatus", *normalized, approvalStatuses)
}

// checkApprovalRequired enforces the one cross-field rule: a ticket in the
// Completed phase must carry an approval status.
func checkApprovalRequired(phase domain.TicketPhase, approval *domain.ApprovalStatus) error {
	if phase == domain.PhaseCompleted && approval == nil {
		return &FieldError{
			Field:   "approvalStatus",
			Code:    CodeMissingConditionalField,
			Message: "approvalStatus is required when phase is Completed",
		}
	}
	return nil
}

// NewTicket validates a creation payload and returns a normalized ticket.
// ID, History and CreatedAt are left for the caller to assign.
func NewTicket(p TicketCreate) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	var err error
	if ticket.ClientName, err = requireString("clientName", p.ClientName); err != nil {
		return nil, err
	}
	if ticket.ClientEmail, err = requireEmail("clientEmail", p.ClientEmail); err != nil {
		return nil, err
	}
	if ticket.Component, err = requireString("component", p.Component); err != nil {
		return nil, err
	}
	if ticket.Brand, err = requireString("brand", p.Brand); err != nil {
		return nil, err
	}
	phase, err := requireString("phase", p.Phase)
	if err != nil {
		return nil, err
	}
	if ticket.Phase, err = parsePhase(phase); err != nil {
		return nil, err
	}
	if ticket.ApprovalStatus, err = parseApprovalStatus(p.ApprovalStatus); err != nil {
		return nil, err
	}
	if err = checkApprovalRequired(ticket.Phase, ticket.ApprovalStatus); err != nil {
		return nil, err
	}
	ticket.SerialNumber = optionalString(p.SerialNumber)
	ticket.Problem = optionalString(p.Problem)
	ticket.ProtocolNumber = optionalString(p.ProtocolNumber)
	ticket.TrackingNumber = optionalString(p.TrackingNumber)
	ticket.ShippingCompany = optionalString(p.ShippingCompany)
	if ticket.ShippingDate, err = optionalDate("shippingDate", p.ShippingDate); err != nil {
		return nil, err
	}
	if ticket.CompletionDate, err = optionalDate("completionDate", p.CompletionDate); err != nil {
		return nil, err
	}
	ticket.Images = normalizeImages(p.Images)
	return ticket, nil
}

// MergeTicket validates an update payload against the stored ticket and
// returns the merged result plus the supplied attribute keys in schema
// declaration order. The stored ticket is not mutated.
func MergeTicket(current *domain.Ticket, p TicketUpdate) (*domain.Ticket, []string, error) {
	merged := *current
	merged.Images = append([]string(nil), current.Images...)
	merged.History = nil
	var supplied []string
	var err error

	if p.ClientName != nil {
		if merged.ClientName, err = requireString("clientName", *p.ClientName); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "clientName")
	}
	if p.ClientEmail != nil {
		if merged.ClientEmail, err = requireEmail("clientEmail", *p.ClientEmail); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "clientEmail")
	}
	if p.Component != nil {
		if merged.Component, err = requireString("component", *p.Component); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "component")
	}
	if p.Brand != nil {
		if merged.Brand, err = requireString("brand", *p.Brand); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "brand")
	}
	if p.SerialNumber != nil {
		merged.SerialNumber = optionalString(p.SerialNumber)
		supplied = append(supplied, "serialNumber")
	}
	if p.Problem != nil {
		merged.Problem = optionalString(p.Problem)
		supplied = append(supplied, "problem")
	}
	if p.ProtocolNumber != nil {
		merged.ProtocolNumber = optionalString(p.ProtocolNumber)
		supplied = append(supplied, "protocolNumber")
	}
	if p.ApprovalStatus != nil {
		if merged.ApprovalStatus, err = parseApprovalStatus(p.ApprovalStatus); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "approvalStatus")
	}
	if p.Phase != nil {
		phase, err := requireString("phase", *p.Phase)
		if err != nil {
			return nil, nil, err
		}
		if merged.Phase, err = parsePhase(phase); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "phase")
	}
	if p.ShippingDate != nil {
		if merged.ShippingDate, err = optionalDate("shippingDate", p.ShippingDate); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "shippingDate")
	}
	if p.TrackingNumber != nil {
		merged.TrackingNumber = optionalString(p.TrackingNumber)
		supplied = append(supplied, "trackingNumber")
	}
	if p.ShippingCompany != nil {
		merged.ShippingCompany = optionalString(p.ShippingCompany)
		supplied = append(supplied, "shippingCompany")
	}
	if p.CompletionDate != nil {
		if merged.CompletionDate, err = optionalDate("completionDate", p.CompletionDate); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "completionDate")
	}
	if p.Images != nil {
		merged.Images = normalizeImages(*p.Images)
		supplied = append(supplied, "images")
	}

	// effective values: the merged phase and approval status must still
	// satisfy the Completed-phase rule
	if err = checkApprovalRequired(merged.Phase, merged.ApprovalStatus); err != nil {
		return nil, nil, err
	}
	return &merged, supplied, nil
}
