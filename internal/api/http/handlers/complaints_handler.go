package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create handles POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("Authentication required")
	}

	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid payload")
	}
	if req.Title == "" || req.Description == "" || req.Category == "" || req.Priority == "" {
		return apperrors.NewValidationError("All fields are required")
	}
	category := domain.ComplaintCategory(req.Category)
	if !category.Valid() {
		return apperrors.NewValidationError("Invalid category")
	}
	priority := domain.ComplaintPriority(req.Priority)
	if !priority.Valid() {
		return apperrors.NewValidationError("Invalid priority")
	}

	complaint, err := h.service.Create(c.Context(), identity, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Priority:    priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewComplaintResponse(complaint))
}

// List handles GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("Authentication required")
	}

	complaints, err := h.service.List(c.Context(), identity)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return c.JSON(items)
}

// UpdateStatus handles PUT /complaints/:id. Admin role is enforced by the
// route middleware before this runs.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid payload")
	}
	if req.Status == "" {
		return apperrors.NewValidationError("Status is required")
	}
	status := domain.ComplaintStatus(req.Status)
	if !status.Valid() {
		return apperrors.NewValidationError("Invalid status")
	}

	complaint, err := h.service.UpdateStatus(c.Context(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewComplaintResponse(complaint))
}

// Delete handles DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Complaint deleted successfully"})
}
