package domain

import "time"

// ModerationStatus represents a user's standing on the platform.
type ModerationStatus string

const (
	ModerationActive  ModerationStatus = "active"
	ModerationWarned  ModerationStatus = "warned"
	ModerationBlocked ModerationStatus = "blocked"
)

// InitialCredits is the balance granted on first sign-in and the cap for
// natural replenishment. Admin grants may push a balance past it.
const InitialCredits = 3

// User is the domain model for citizens and administrators.
type User struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"passwordHash,omitempty"`
	IsAdmin          bool             `json:"isAdmin"`
	GrievanceCredits int              `json:"grievanceCredits"`
	LastCreditUpdate time.Time        `json:"lastCreditUpdate"`
	Status           ModerationStatus `json:"status"`
	Warnings         int              `json:"warnings"`
	WarningReason    string           `json:"warningReason,omitempty"`
	LastWarningDate  *time.Time       `json:"lastWarningDate,omitempty"`
	BlockReason      string           `json:"blockReason,omitempty"`
	BlockDate        *time.Time       `json:"blockDate,omitempty"`
	UnblockDate      *time.Time       `json:"unblockDate,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Blocked reports whether the user is currently blocked.
func (u *User) Blocked() bool {
	return u != nil && u.Status == ModerationBlocked
}
