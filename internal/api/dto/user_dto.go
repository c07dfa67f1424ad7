package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserProfile is the user shape returned by the API. The password hash
// never leaves the service.
type UserProfile struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Email            string                  `json:"email"`
	IsAdmin          bool                    `json:"is_admin"`
	GrievanceCredits int                     `json:"grievance_credits"`
	LastCreditUpdate time.Time               `json:"last_credit_update"`
	Status           domain.ModerationStatus `json:"status"`
	Warnings         int                     `json:"warnings"`
	WarningReason    string                  `json:"warning_reason,omitempty"`
	BlockReason      string                  `json:"block_reason,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

// NewUserProfile maps the domain user to its API shape.
func NewUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		IsAdmin:          user.IsAdmin,
		GrievanceCredits: user.GrievanceCredits,
		LastCreditUpdate: user.LastCreditUpdate,
		Status:           user.Status,
		Warnings:         user.Warnings,
		WarningReason:    user.WarningReason,
		BlockReason:      user.BlockReason,
		CreatedAt:        user.CreatedAt,
	}
}

// ModerationRequest payload for warn and block actions.
type ModerationRequest struct {
	Reason string `json:"reason"`
}
