package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// AdminHandler manages grievance workflow and moderation endpoints.
type AdminHandler struct {
	grievances *service.GrievanceService
	moderation *service.ModerationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(grievanceService *service.GrievanceService, moderationService *service.ModerationService) *AdminHandler {
	return &AdminHandler{grievances: grievanceService, moderation: moderationService}
}

// ListGrievances GET /admin/grievances with an optional status filter.
func (h *AdminHandler) ListGrievances(c *fiber.Ctx) error {
	status := domain.GrievanceStatus(c.Query("status"))
	grievances, err := h.grievances.ListAll(c.Context(), status)
	if err != nil {
		return err
	}
	items := make([]dto.GrievanceSummary, 0, len(grievances))
	for i := range grievances {
		items = append(items, dto.NewGrievanceSummary(&grievances[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// StartProcessing POST /admin/grievances/:id/start.
func (h *AdminHandler) StartProcessing(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.grievances.StartProcessing(c.Context(), c.Params("id"), admin, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// Resolve POST /admin/grievances/:id/resolve.
func (h *AdminHandler) Resolve(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.grievances.Resolve(c.Context(), c.Params("id"), admin, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// Assign POST /admin/grievances/:id/assign.
func (h *AdminHandler) Assign(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	grievance, err := h.grievances.Assign(c.Context(), c.Params("id"), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// EscalatePriority PUT /admin/grievances/:id/priority.
func (h *AdminHandler) EscalatePriority(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	grievance, err := h.grievances.EscalatePriority(c.Context(), c.Params("id"), req.Priority, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceDetail(grievance)})
}

// Remove DELETE /admin/grievances/:id.
func (h *AdminHandler) Remove(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.RemoveGrievanceRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.grievances.Remove(c.Context(), c.Params("id"), admin, req.Reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": true}})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.moderation.ListUsers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserProfile, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserProfile(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Warn POST /admin/users/:id/warn.
func (h *AdminHandler) Warn(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.moderation.Warn(c.Context(), c.Params("id"), req.Reason, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfile(user)})
}

// Block POST /admin/users/:id/block.
func (h *AdminHandler) Block(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.ModerationRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.moderation.Block(c.Context(), c.Params("id"), req.Reason, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfile(user)})
}

// Unblock POST /admin/users/:id/unblock.
func (h *AdminHandler) Unblock(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	user, err := h.moderation.Unblock(c.Context(), c.Params("id"), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfile(user)})
}
