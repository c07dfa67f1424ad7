package domain

import "time"

// NotificationKind identifies the event that produced a notification.
type NotificationKind string

const (
	NotifyStatusUpdate         NotificationKind = "status_update"
	NotifyComment              NotificationKind = "comment"
	NotifyAssigned             NotificationKind = "assigned"
	NotifyWarning              NotificationKind = "warning"
	NotifyBlocked              NotificationKind = "blocked"
	NotifyUnblocked            NotificationKind = "unblocked"
	NotifyCreditsApproved      NotificationKind = "credits_approved"
	NotifyCreditsRejected      NotificationKind = "credits_rejected"
	NotifyCreditsGranted       NotificationKind = "credits_granted"
	NotifyGrievanceRemoved     NotificationKind = "grievance_removed"
	NotifyGrievanceResubmitted NotificationKind = "grievance_resubmitted"
)

// AdminPool is the recipient id used for notifications addressed to the
// administrator pool rather than a single user.
const AdminPool = "admins"

// Notification is a durable, append-only message directed at one recipient.
type Notification struct {
	ID          string           `json:"id"`
	Recipient   string           `json:"recipient"`
	Kind        NotificationKind `json:"kind"`
	Message     string           `json:"message"`
	GrievanceID string           `json:"grievanceId,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	Read        bool             `json:"read"`
}
