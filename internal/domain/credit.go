package domain

import "time"

// CreditRequestStatus enumerates states for a credit request.
type CreditRequestStatus string

const (
	CreditRequestPending  CreditRequestStatus = "pending"
	CreditRequestApproved CreditRequestStatus = "approved"
	CreditRequestRejected CreditRequestStatus = "rejected"
)

// CreditRequest is a user's plea for additional submission credits.
// At most one pending request exists per user; resolution is terminal.
type CreditRequest struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	UserName       string              `json:"userName"`
	CurrentCredits int                 `json:"currentCredits"`
	Reason         string              `json:"reason"`
	Status         CreditRequestStatus `json:"status"`
	RequestDate    time.Time           `json:"requestDate"`
	ResolvedBy     string              `json:"resolvedBy,omitempty"`
	ResolvedByName string              `json:"resolvedByName,omitempty"`
	ResolvedAt     *time.Time          `json:"resolvedAt,omitempty"`
	CreditsGranted int                 `json:"creditsGranted,omitempty"`
}
