package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// CreditRequestCreate payload for requesting more submission credits.
type CreditRequestCreate struct {
	Reason string `json:"reason"`
}

// CreditApproveRequest payload.
type CreditApproveRequest struct {
	CreditsGranted int `json:"credits_granted"`
}

// CreditGrantRequest payload for direct grants outside the request flow.
type CreditGrantRequest struct {
	Credits int `json:"credits"`
}

// CreditRequestResponse response shape.
type CreditRequestResponse struct {
	ID             string                     `json:"id"`
	UserID         string                     `json:"user_id"`
	UserName       string                     `json:"user_name"`
	Reason         string                     `json:"reason"`
	Status         domain.CreditRequestStatus `json:"status"`
	CreditsGranted int                        `json:"credits_granted,omitempty"`
	ResolvedBy     string                     `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time                 `json:"resolved_at,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// NewCreditRequestResponse maps the domain record to its API shape.
func NewCreditRequestResponse(r *domain.CreditRequest) CreditRequestResponse {
	return CreditRequestResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		Reason:         r.Reason,
		Status:         r.Status,
		CreditsGranted: r.CreditsGranted,
		ResolvedBy:     r.ResolvedBy,
		ResolvedAt:     r.ResolvedAt,
		CreatedAt:      r.RequestDate,
	}
}

// NotificationResponse response shape.
type NotificationResponse struct {
	ID          string                  `json:"id"`
	Kind        domain.NotificationKind `json:"kind"`
	Message     string                  `json:"message"`
	GrievanceID string                  `json:"grievance_id,omitempty"`
	Read        bool                    `json:"read"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewNotificationResponse maps the domain record to its API shape.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Kind:        n.Kind,
		Message:     n.Message,
		GrievanceID: n.GrievanceID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
