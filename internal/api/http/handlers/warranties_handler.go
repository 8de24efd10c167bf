package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/velodesk/repair-service/internal/service"
	"github.com/velodesk/repair-service/internal/validate"
	apperrors "github.com/velodesk/repair-service/pkg/util"
)

// WarrantiesHandler manages warranty claim endpoints.
type WarrantiesHandler struct {
	service *service.WarrantyService
}

// NewWarrantiesHandler constructs handler.
func NewWarrantiesHandler(warrantyService *service.WarrantyService) *WarrantiesHandler {
	return &WarrantiesHandler{service: warrantyService}
}

// ListWarranties GET /api/warranties.
func (h *WarrantiesHandler) ListWarranties(c *fiber.Ctx) error {
	warranties, err := h.service.ListWarranties(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(warranties)
}

// GetWarranty GET /api/warranties/:id.
func (h *WarrantiesHandler) GetWarranty(c *fiber.Ctx) error {
	warranty, err := h.service.GetWarranty(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(warranty)
}

// CreateWarranty POST /api/warranties.
func (h *WarrantiesHandler) CreateWarranty(c *fiber.Ctx) error {
	var req validate.WarrantyCreate
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	warranty, err := h.service.CreateWarranty(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(warranty)
}

// UpdateWarranty PATCH /api/warranties/:id.
func (h *WarrantiesHandler) UpdateWarranty(c *fiber.Ctx) error {
	var req validate.WarrantyUpdate
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	warranty, err := h.service.UpdateWarranty(c.Context(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(warranty)
}

// DeleteWarranty DELETE /api/warranties/:id.
func (h *WarrantiesHandler) DeleteWarranty(c *fiber.Ctx) error {
	if err := h.service.DeleteWarranty(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
