package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// CreditsHandler manages the submission-credit endpoints.
type CreditsHandler struct {
	credits *service.CreditService
}

// NewCreditsHandler constructs handler.
func NewCreditsHandler(creditService *service.CreditService) *CreditsHandler {
	return &CreditsHandler{credits: creditService}
}

// Request POST /credits/request files a plea for more credits.
func (h *CreditsHandler) Request(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreditRequestCreate
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.credits.RequestMore(c.Context(), user.ID, req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCreditRequestResponse(request)})
}

// ListPending GET /admin/credits/requests.
func (h *CreditsHandler) ListPending(c *fiber.Ctx) error {
	requests, err := h.credits.ListPendingRequests(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CreditRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewCreditRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Approve POST /admin/credits/requests/:id/approve.
func (h *CreditsHandler) Approve(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.CreditApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.credits.Approve(c.Context(), c.Params("id"), req.CreditsGranted, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCreditRequestResponse(request)})
}

// Reject POST /admin/credits/requests/:id/reject.
func (h *CreditsHandler) Reject(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	request, err := h.credits.Reject(c.Context(), c.Params("id"), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCreditRequestResponse(request)})
}

// Grant POST /admin/users/:id/credits grants credits outside the request flow.
func (h *CreditsHandler) Grant(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.CreditGrantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.credits.GrantDirect(c.Context(), c.Params("id"), req.Credits, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfile(user)})
}
