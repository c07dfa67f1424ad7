package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/store"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// CreditService owns the per-user submission-credit ledger and the
// request/approval workflow around it.
type CreditService struct {
	users      repository.UserRepository
	requests   repository.CreditRequestRepository
	dispatcher events.Dispatcher
	cfg        config.CreditConfig
}

// CreditDependencies bundles repositories for the credit service.
type CreditDependencies struct {
	UserRepo    repository.UserRepository
	RequestRepo repository.CreditRequestRepository
	Dispatcher  events.Dispatcher
}

// NewCreditService constructs the service.
func NewCreditService(cfg config.CreditConfig, deps CreditDependencies) *CreditService {
	return &CreditService{
		users:      deps.UserRepo,
		requests:   deps.RequestRepo,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
	}
}

// Consume spends one submission credit. The decrement runs through the
// gateway's atomic update when available; blocked users are rejected
// regardless of balance.
func (s *CreditService) Consume(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.UpdateAtomic(ctx, userID, func(user *domain.User) error {
		if user.Blocked() {
			return apperrors.NewForbidden("account is blocked")
		}
		if user.GrievanceCredits <= 0 {
			return apperrors.NewInsufficientCredits(user.GrievanceCredits)
		}
		user.GrievanceCredits--
		user.LastCreditUpdate = time.Now()
		user.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		if apperrors.IsCode(err, "INSUFFICIENT_CREDITS") {
			publishEvent(ctx, s.dispatcher, events.Event{
				Type:    events.EventCreditDenied,
				Actor:   events.Actor{UserID: userID},
				Payload: events.CreditDeniedPayload{UserID: userID},
			})
		}
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	return user, nil
}

// RequestMore files a pending credit request for a user whose balance ran out.
func (s *CreditService) RequestMore(ctx context.Context, userID, reason string) (*domain.CreditRequest, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	if user.Blocked() {
		return nil, apperrors.NewForbidden("account is blocked")
	}
	if len(strings.TrimSpace(reason)) < s.cfg.MinReasonLength {
		return nil, apperrors.NewValidationError("reason too short",
			map[string]any{"min_length": s.cfg.MinReasonLength})
	}
	if pending, err := s.requests.FindPendingByUser(ctx, userID); err == nil {
		return nil, apperrors.NewDuplicateRequest(pending.ID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	request := &domain.CreditRequest{
		UserID:         user.ID,
		UserName:       user.Name,
		CurrentCredits: user.GrievanceCredits,
		Reason:         strings.TrimSpace(reason),
		Status:         domain.CreditRequestPending,
		RequestDate:    time.Now(),
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	return request, nil
}

// Approve resolves a pending request, credits the requester, and notifies them.
func (s *CreditService) Approve(ctx context.Context, requestID string, grantedCredits int, approver *domain.User) (*domain.CreditRequest, error) {
	if err := requireAdmin(approver); err != nil {
		return nil, err
	}
	if grantedCredits <= 0 {
		return nil, apperrors.NewValidationError("granted credits must be positive", nil)
	}
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, mapStoreErr(err, "credit request", map[string]any{"request_id": requestID})
	}
	if request.Status != domain.CreditRequestPending {
		return nil, apperrors.NewNotFound("pending credit request", map[string]any{"request_id": requestID})
	}
	// Defense in depth: requests predating the length rule never get approved
	// with a hollow reason.
	if len(strings.TrimSpace(request.Reason)) < s.cfg.MinReasonLength {
		return nil, apperrors.NewValidationError("request reason does not meet the minimum length",
			map[string]any{"min_length": s.cfg.MinReasonLength})
	}

	now := time.Now()
	request.Status = domain.CreditRequestApproved
	request.ResolvedBy = approver.ID
	request.ResolvedByName = approver.Name
	request.ResolvedAt = &now
	request.CreditsGranted = grantedCredits
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}

	if _, err := s.users.UpdateAtomic(ctx, request.UserID, func(user *domain.User) error {
		user.GrievanceCredits += grantedCredits
		user.LastCreditUpdate = now
		user.UpdatedAt = now
		return nil
	}); err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": request.UserID})
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventCreditsApproved,
		Actor: actorOf(approver),
		Payload: events.CreditsResolvedPayload{
			RequestID:      request.ID,
			UserID:         request.UserID,
			CreditsGranted: grantedCredits,
		},
	})
	return request, nil
}

// Reject resolves a pending request without a balance change.
func (s *CreditService) Reject(ctx context.Context, requestID string, approver *domain.User) (*domain.CreditRequest, error) {
	if err := requireAdmin(approver); err != nil {
		return nil, err
	}
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, mapStoreErr(err, "credit request", map[string]any{"request_id": requestID})
	}
	if request.Status != domain.CreditRequestPending {
		return nil, apperrors.NewNotFound("pending credit request", map[string]any{"request_id": requestID})
	}

	now := time.Now()
	request.Status = domain.CreditRequestRejected
	request.ResolvedBy = approver.ID
	request.ResolvedByName = approver.Name
	request.ResolvedAt = &now
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventCreditsRejected,
		Actor: actorOf(approver),
		Payload: events.CreditsResolvedPayload{
			RequestID: request.ID,
			UserID:    request.UserID,
		},
	})
	return request, nil
}

// GrantDirect adds credits without an underlying request. No upper bound: the
// nominal cap applies to natural replenishment, not admin action.
func (s *CreditService) GrantDirect(ctx context.Context, userID string, amount int, admin *domain.User) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	user, err := s.users.UpdateAtomic(ctx, userID, func(user *domain.User) error {
		user.GrievanceCredits += amount
		user.LastCreditUpdate = time.Now()
		user.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventCreditsGranted,
		Actor: actorOf(admin),
		Payload: events.CreditsResolvedPayload{
			UserID:         userID,
			CreditsGranted: amount,
		},
	})
	return user, nil
}

// Replenish grants one natural credit when the user is below the cap and the
// replenish interval has elapsed since the last balance change. Silent: the
// original product surfaces this client-side, no notification record.
func (s *CreditService) Replenish(ctx context.Context, userID string) (bool, error) {
	granted := false
	_, err := s.users.UpdateAtomic(ctx, userID, func(user *domain.User) error {
		if user.Blocked() {
			return nil
		}
		if user.GrievanceCredits >= s.cfg.ReplenishCap {
			return nil
		}
		if time.Since(user.LastCreditUpdate) < s.cfg.ReplenishAfter() {
			return nil
		}
		user.GrievanceCredits++
		user.LastCreditUpdate = time.Now()
		user.UpdatedAt = time.Now()
		granted = true
		return nil
	})
	if err != nil {
		return false, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	return granted, nil
}

// ReplenishAll sweeps every user, applying Replenish. Returns the number of
// credits granted; used by the cron worker.
func (s *CreditService) ReplenishAll(ctx context.Context) (int, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	granted := 0
	for i := range users {
		ok, err := s.Replenish(ctx, users[i].ID)
		if err != nil {
			return granted, err
		}
		if ok {
			granted++
		}
	}
	return granted, nil
}

// ListPendingRequests returns unresolved requests for the admin dashboard.
func (s *CreditService) ListPendingRequests(ctx context.Context) ([]domain.CreditRequest, error) {
	return s.requests.ListByStatus(ctx, domain.CreditRequestPending)
}
