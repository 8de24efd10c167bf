package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/velodesk/repair-service/internal/api/dto"
	"github.com/velodesk/repair-service/internal/uploads"
	apperrors "github.com/velodesk/repair-service/pkg/util"
)

// UploadsHandler issues presigned image-upload URLs.
type UploadsHandler struct {
	uploads *uploads.Service
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(uploadService *uploads.Service) *UploadsHandler {
	return &UploadsHandler{uploads: uploadService}
}

// Presign POST /api/uploads/presign.
func (h *UploadsHandler) Presign(c *fiber.Ctx) error {
	var req dto.PresignUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return apperrors.NewValidationError("fileName required", map[string]any{"field": "fileName"})
	}
	slot, err := h.uploads.PresignPut(c.Context(), req.FileName, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(slot)
}
