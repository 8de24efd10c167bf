package domain

import "time"

// WarrantyStatus enumerates warranty claim processing states.
type WarrantyStatus string

const (
	WarrantyPending    WarrantyStatus = "Pending"
	WarrantyInProgress WarrantyStatus = "In Progress"
	WarrantyCompleted  WarrantyStatus = "Completed"
)

// Warranty is the aggregate for warranty claims. ProtocolNumber is
// server-allocated at creation and unique per claim.
type Warranty struct {
	ID                    string         `json:"id"`
	ProtocolNumber        string         `json:"protocolNumber"`
	StartDate             Date           `json:"startDate"`
	CustomerName          string         `json:"customerName"`
	Email                 string         `json:"email"`
	Agent                 string         `json:"agent"`
	SerialNumber          string         `json:"serialNumber"`
	BikeModel             string         `json:"bikeModel"`
	Size                  string         `json:"size"`
	Problem               string         `json:"problem"`
	Observation           *string        `json:"observation"`
	PaintDetails          *string        `json:"paintDetails"`
	ComponentsDescription *string        `json:"componentsDescription"`
	Solution              *string        `json:"solution"`
	Producer              *string        `json:"producer"`
	NewSerialNumber       *string        `json:"newSerialNumber"`
	OrderNumber           *string        `json:"orderNumber"`
	Value                 *string        `json:"value"`
	Invoice               *string        `json:"invoice"`
	Status                WarrantyStatus `json:"status"`
	Images                []string       `json:"images"`
	History               []HistoryEntry `json:"history"`
	CreatedAt             time.Time      `json:"createdAt"`
}
