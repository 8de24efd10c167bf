package validate

import (
	"github.com/velodesk/repair-service/internal/domain"
)

// WarrantyCreate is the full candidate payload for warranty creation.
// ProtocolNumber is absent on purpose: it is server-allocated. Status is
// accepted but ignored; new warranties always start Pending.
type WarrantyCreate struct {
	StartDate             *string  `json:"startDate"`
	CustomerName          string   `json:"customerName"`
	Email                 string   `json:"email"`
	Agent                 string   `json:"agent"`
	SerialNumber          string   `json:"serialNumber"`
	BikeModel             string   `json:"bikeModel"`
	Size                  string   `json:"size"`
	Problem               string   `json:"problem"`
	Observation           *string  `json:"observation"`
	PaintDetails          *string  `json:"paintDetails"`
	ComponentsDescription *string  `json:"componentsDescription"`
	Solution              *string  `json:"solution"`
	Producer              *string  `json:"producer"`
	NewSerialNumber       *string  `json:"newSerialNumber"`
	OrderNumber           *string  `json:"orderNumber"`
	Value                 *string  `json:"value"`
	Invoice               *string  `json:"invoice"`
	Status                *string  `json:"status"`
	Images                []string `json:"images"`
}

// WarrantyUpdate is a partial candidate payload; nil fields were not supplied.
// As with TicketUpdate, the empty string is the clearing form for optional
// fields.
type WarrantyUpdate struct {
	StartDate             *string   `json:"startDate"`
	CustomerName          *string   `json:"customerName"`
	Email                 *string   `json:"email"`
	Agent                 *string   `json:"agent"`
	SerialNumber          *string   `json:"serialNumber"`
	BikeModel             *string   `json:"bikeModel"`
	Size                  *string   `json:"size"`
	Problem               *string   `json:"problem"`
	Observation           *string   `json:"observation"`
	PaintDetails          *string   `json:"paintDetails"`
	ComponentsDescription *string   `json:"componentsDescription"`
	Solution              *string   `json:"solution"`
	Producer              *string   `json:"producer"`
	NewSerialNumber       *string   `json:"newSerialNumber"`
	OrderNumber           *string   `json:"orderNumber"`
	Value                 *string   `json:"value"`
	Invoice               *string   `json:"invoice"`
	Status                *string   `json:"status"`
	Images                *[]string `json:"images"`
}

var warrantyStatuses = []string{
	string(domain.WarrantyPending),
	string(domain.WarrantyInProgress),
	string(domain.WarrantyCompleted),
}

func parseWarrantyStatus(value string) (domain.WarrantyStatus, error) {
	for _, s := range warrantyStatuses {
		if value == s {
			return domain.WarrantyStatus(value), nil
		}
	}
	return "", errInvalidEnum("status", value, warrantyStatuses)
}

// NewWarranty validates a creation payload and returns a normalized warranty
// with status forced to Pending. ID, ProtocolNumber, History and CreatedAt
// are left for the caller to assign.
func NewWarranty(p WarrantyCreate) (*domain.Warranty, error) {
	warranty := &domain.Warranty{Status: domain.WarrantyPending}
	var err error
	if warranty.StartDate, err = requireDate("startDate", p.StartDate); err != nil {
		return nil, err
	}
	if warranty.CustomerName, err = requireString("customerName", p.CustomerName); err != nil {
		return nil, err
	}
	if warranty.Email, err = requireEmail("email", p.Email); err != nil {
		return nil, err
	}
	if warranty.Agent, err = requireString("agent", p.Agent); err != nil {
		return nil, err
	}
	if warranty.SerialNumber, err = requireString("serialNumber", p.SerialNumber); err != nil {
		return nil, err
	}
	if warranty.BikeModel, err = requireString("bikeModel", p.BikeModel); err != nil {
		return nil, err
	}
	if warranty.Size, err = requireString("size", p.Size); err != nil {
		return nil, err
	}
	if warranty.Problem, err = requireString("problem", p.Problem); err != nil {
		return nil, err
	}
	warranty.Observation = optionalString(p.Observation)
	warranty.PaintDetails = optionalString(p.PaintDetails)
	warranty.ComponentsDescription = optionalString(p.ComponentsDescription)
	warranty.Solution = optionalString(p.Solution)
	warranty.Producer = optionalString(p.Producer)
	warranty.NewSerialNumber = optionalString(p.NewSerialNumber)
	warranty.OrderNumber = optionalString(p.OrderNumber)
	warranty.Value = optionalString(p.Value)
	warranty.Invoice = optionalString(p.Invoice)
	warranty.Images = normalizeImages(p.Images)
	return warranty, nil
}

// MergeWarranty validates an update payload against the stored warranty and
// returns the merged result plus the supplied attribute keys in schema
// declaration order. The stored warranty is not mutated.
func MergeWarranty(current *domain.Warranty, p WarrantyUpdate) (*domain.Warranty, []string, error) {
	merged := *current
	merged.Images = append([]string(nil), current.Images...)
	merged.History = nil
	var supplied []string
	var err error

	if p.StartDate != nil {
		if merged.StartDate, err = requireDate("startDate", p.StartDate); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "startDate")
	}
	if p.CustomerName != nil {
		if merged.CustomerName, err = requireString("customerName", *p.CustomerName); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "customerName")
	}
	if p.Email != nil {
		if merged.Email, err = requireEmail("email", *p.Email); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "email")
	}
	if p.Agent != nil {
		if merged.Agent, err = requireString("agent", *p.Agent); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "agent")
	}
	if p.SerialNumber != nil {
		if merged.SerialNumber, err = requireString("serialNumber", *p.SerialNumber); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "serialNumber")
	}
	if p.BikeModel != nil {
		if merged.BikeModel, err = requireString("bikeModel", *p.BikeModel); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "bikeModel")
	}
	if p.Size != nil {
		if merged.Size, err = requireString("size", *p.Size); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "size")
	}
	if p.Problem != nil {
		if merged.Problem, err = requireString("problem", *p.Problem); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "problem")
	}
	if p.Observation != nil {
		merged.Observation = optionalString(p.Observation)
		supplied = append(supplied, "observation")
	}
	if p.PaintDetails != nil {
		merged.PaintDetails = optionalString(p.PaintDetails)
		supplied = append(supplied, "paintDetails")
	}
	if p.ComponentsDescription != nil {
		merged.ComponentsDescription = optionalString(p.ComponentsDescription)
		supplied = append(supplied, "componentsDescription")
	}
	if p.Solution != nil {
		merged.Solution = optionalString(p.Solution)
		supplied = append(supplied, "solution")
	}
	if p.Producer != nil {
		merged.Producer = optionalString(p.Producer)
		supplied = append(supplied, "producer")
	}
	if p.NewSerialNumber != nil {
		merged.NewSerialNumber = optionalString(p.NewSerialNumber)
		supplied = append(supplied, "newSerialNumber")
	}
	if p.OrderNumber != nil {
		merged.OrderNumber = optionalString(p.OrderNumber)
		supplied = append(supplied, "orderNumber")
	}
	if p.Value != nil {
		merged.Value = optionalString(p.Value)
		supplied = append(supplied, "value")
	}
	if p.Invoice != nil {
		merged.Invoice = optionalString(p.Invoice)
		supplied = append(supplied, "invoice")
	}
	if p.Status != nil {
		status, err := requireString("status", *p.Status)
		if err != nil {
			return nil, nil, err
		}
		if merged.Status, err = parseWarrantyStatus(status); err != nil {
			return nil, nil, err
		}
		supplied = append(supplied, "status")
	}
	if p.Images != nil {
		merged.Images = normalizeImages(*p.Images)
		supplied = append(supplied, "images")
	}
	return &merged, supplied, nil
}
