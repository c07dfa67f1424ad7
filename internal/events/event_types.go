package events

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceCreated     EventType = "grievance_created"
	EventStatusChanged        EventType = "grievance_status_changed"
	EventCommentAdded         EventType = "grievance_comment_added"
	EventGrievanceAssigned    EventType = "grievance_assigned"
	EventGrievanceResubmitted EventType = "grievance_resubmitted"
	EventGrievanceRemoved     EventType = "grievance_removed"
	EventCreditDenied         EventType = "credit_denied"
	EventCreditsApproved      EventType = "credits_approved"
	EventCreditsRejected      EventType = "credits_rejected"
	EventCreditsGranted       EventType = "credits_granted"
	EventUserWarned           EventType = "user_warned"
	EventUserBlocked          EventType = "user_blocked"
	EventUserUnblocked        EventType = "user_unblocked"
	EventNotificationStored   EventType = "notification_stored"
)

// Actor encapsulates who triggered an event.
type Actor struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GrievanceCreatedPayload payload. Creation produces no notification; the
// event exists for metrics and the request log.
type GrievanceCreatedPayload struct {
	GrievanceID string                   `json:"grievance_id"`
	SubmitterID string                   `json:"submitter_id"`
	Priority    domain.GrievancePriority `json:"priority"`
	Title       string                   `json:"title"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	GrievanceID string                 `json:"grievance_id"`
	SubmitterID string                 `json:"submitter_id"`
	OldStatus   domain.GrievanceStatus `json:"old_status"`
	NewStatus   domain.GrievanceStatus `json:"new_status"`
	Comment     string                 `json:"comment,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	GrievanceID string `json:"grievance_id"`
	SubmitterID string `json:"submitter_id"`
	AuthorID    string `json:"author_id"`
	AuthorName  string `json:"author_name"`
	Preview     string `json:"preview"`
}

// GrievanceAssignedPayload payload.
type GrievanceAssignedPayload struct {
	GrievanceID  string `json:"grievance_id"`
	SubmitterID  string `json:"submitter_id"`
	AssignedTo   string `json:"assigned_to"`
	AssignedName string `json:"assigned_name"`
}

// GrievanceResubmittedPayload payload. Directed at the admin pool.
type GrievanceResubmittedPayload struct {
	GrievanceID   string `json:"grievance_id"`
	SubmitterID   string `json:"submitter_id"`
	SubmitterName string `json:"submitter_name"`
	Title         string `json:"title"`
}

// GrievanceRemovedPayload payload.
type GrievanceRemovedPayload struct {
	GrievanceID string `json:"grievance_id"`
	SubmitterID string `json:"submitter_id"`
	Reason      string `json:"reason"`
}

// CreditDeniedPayload payload. Published when a submission is rejected for an
// exhausted balance; no notification results, the event feeds metrics.
type CreditDeniedPayload struct {
	UserID string `json:"user_id"`
}

// CreditsResolvedPayload covers approval, rejection, and direct grants.
type CreditsResolvedPayload struct {
	RequestID      string `json:"request_id,omitempty"`
	UserID         string `json:"user_id"`
	CreditsGranted int    `json:"credits_granted,omitempty"`
}

// ModerationPayload covers warn, block, and unblock.
type ModerationPayload struct {
	UserID   string `json:"user_id"`
	Reason   string `json:"reason,omitempty"`
	Warnings int    `json:"warnings,omitempty"`
}

// NotificationStoredPayload payload. Published after a notification record is
// durably written.
type NotificationStoredPayload struct {
	Recipient string                  `json:"recipient"`
	Kind      domain.NotificationKind `json:"kind"`
}
