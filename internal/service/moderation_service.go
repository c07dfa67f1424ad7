package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

const defaultModerationReason = "Violation of platform policies"

// ModerationService runs the active/warned/blocked status machine for users.
type ModerationService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewModerationService constructs the service.
func NewModerationService(users repository.UserRepository, dispatcher events.Dispatcher) *ModerationService {
	return &ModerationService{users: users, dispatcher: dispatcher}
}

// IsBlocked reports whether the user is currently blocked. Consulted before
// credit consumption, grievance creation, and login.
func (s *ModerationService) IsBlocked(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	return user.Blocked(), nil
}

// Warn moves a user to warned and increments the warning counter. Permitted
// from active or warned; repeated warnings keep counting.
func (s *ModerationService) Warn(ctx context.Context, userID, reason string, admin *domain.User) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	reason = normalizeReason(reason)
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	if user.Blocked() {
		return nil, apperrors.NewValidationError("cannot warn a blocked user", nil)
	}

	now := time.Now()
	user.Status = domain.ModerationWarned
	user.Warnings++
	user.WarningReason = reason
	user.LastWarningDate = &now
	user.UpdatedAt = now
	if err := s.users.Merge(ctx, user.ID, map[string]any{
		"status":          user.Status,
		"warnings":        user.Warnings,
		"warningReason":   user.WarningReason,
		"lastWarningDate": now,
		"updatedAt":       now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventUserWarned,
		Actor: actorOf(admin),
		Payload: events.ModerationPayload{
			UserID:   user.ID,
			Reason:   reason,
			Warnings: user.Warnings,
		},
	})
	return user, nil
}

// Block moves a user to blocked. Permitted from any state.
func (s *ModerationService) Block(ctx context.Context, userID, reason string, admin *domain.User) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	reason = normalizeReason(reason)
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}

	now := time.Now()
	user.Status = domain.ModerationBlocked
	user.BlockReason = reason
	user.BlockDate = &now
	user.UpdatedAt = now
	if err := s.users.Merge(ctx, user.ID, map[string]any{
		"status":      user.Status,
		"blockReason": user.BlockReason,
		"blockDate":   now,
		"updatedAt":   now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventUserBlocked,
		Actor: actorOf(admin),
		Payload: events.ModerationPayload{
			UserID: user.ID,
			Reason: reason,
		},
	})
	return user, nil
}

// Unblock returns a blocked user to active. Warnings are not reset; there is
// no path from blocked back to warned.
func (s *ModerationService) Unblock(ctx context.Context, userID string, admin *domain.User) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	if !user.Blocked() {
		return nil, apperrors.NewValidationError("user is not blocked", nil)
	}

	now := time.Now()
	user.Status = domain.ModerationActive
	user.UnblockDate = &now
	user.UpdatedAt = now
	if err := s.users.Merge(ctx, user.ID, map[string]any{
		"status":      user.Status,
		"unblockDate": now,
		"updatedAt":   now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventUserUnblocked,
		Actor:   actorOf(admin),
		Payload: events.ModerationPayload{UserID: user.ID},
	})
	return user, nil
}

// ListUsers returns all users for the admin dashboard.
func (s *ModerationService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return defaultModerationReason
	}
	return reason
}
