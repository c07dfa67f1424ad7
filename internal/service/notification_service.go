package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
)

// NotificationService turns domain events into durable notifications.
// Every mutating operation that changes state visible to a non-acting user
// yields exactly one notification for that user; grievance creation is the
// deliberate exception. Notification writes are best effort: a failure is
// logged and the triggering mutation stands.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventGrievanceAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventGrievanceResubmitted, n.handleResubmitted)
	n.dispatcher.Subscribe(events.EventGrievanceRemoved, n.handleRemoved)
	n.dispatcher.Subscribe(events.EventCreditsApproved, n.handleCreditsApproved)
	n.dispatcher.Subscribe(events.EventCreditsRejected, n.handleCreditsRejected)
	n.dispatcher.Subscribe(events.EventCreditsGranted, n.handleCreditsGranted)
	n.dispatcher.Subscribe(events.EventUserWarned, n.handleUserWarned)
	n.dispatcher.Subscribe(events.EventUserBlocked, n.handleUserBlocked)
	n.dispatcher.Subscribe(events.EventUserUnblocked, n.handleUserUnblocked)
}

// Notify persists a single notification for recipient.
func (n *NotificationService) Notify(ctx context.Context, recipient string, kind domain.NotificationKind, message, grievanceID string) error {
	notification := &domain.Notification{
		Recipient:   recipient,
		Kind:        kind,
		Message:     message,
		GrievanceID: grievanceID,
		CreatedAt:   time.Now(),
		Read:        false,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification write failed",
			zap.String("recipient", recipient),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return err
	}
	publishEvent(ctx, n.dispatcher, events.Event{
		Type:    events.EventNotificationStored,
		Payload: events.NotificationStoredPayload{Recipient: recipient, Kind: kind},
	})
	return nil
}

// ListForRecipient returns a recipient's notifications in creation order.
func (n *NotificationService) ListForRecipient(ctx context.Context, recipient string) ([]domain.Notification, error) {
	return n.notifications.ListByRecipient(ctx, recipient)
}

// MarkRead acknowledges a notification.
func (n *NotificationService) MarkRead(ctx context.Context, recipient, id string) error {
	return n.notifications.MarkRead(ctx, recipient, id)
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your grievance (ID: %s) status has been updated to %s.", payload.GrievanceID, payload.NewStatus)
	return n.Notify(ctx, payload.SubmitterID, domain.NotifyStatusUpdate, message, payload.GrievanceID)
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	// Submitters commenting on their own grievance get nothing.
	if payload.AuthorID == payload.SubmitterID {
		return nil
	}
	message := fmt.Sprintf("%s commented on your grievance (ID: %s): %s", payload.AuthorName, payload.GrievanceID, payload.Preview)
	return n.Notify(ctx, payload.SubmitterID, domain.NotifyComment, message, payload.GrievanceID)
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceAssignedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your grievance (ID: %s) has been assigned to %s.", payload.GrievanceID, payload.AssignedName)
	return n.Notify(ctx, payload.SubmitterID, domain.NotifyAssigned, message, payload.GrievanceID)
}

func (n *NotificationService) handleResubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceResubmittedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s resubmitted grievance %q for urgent attention.", payload.SubmitterName, payload.Title)
	return n.Notify(ctx, domain.AdminPool, domain.NotifyGrievanceResubmitted, message, payload.GrievanceID)
}

func (n *NotificationService) handleRemoved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceRemovedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your grievance (ID: %s) has been removed. Reason: %s", payload.GrievanceID, payload.Reason)
	return n.Notify(ctx, payload.SubmitterID, domain.NotifyGrievanceRemoved, message, payload.GrievanceID)
}

func (n *NotificationService) handleCreditsApproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CreditsResolvedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your request for additional credits has been approved. You have been granted %d credit(s).", payload.CreditsGranted)
	return n.Notify(ctx, payload.UserID, domain.NotifyCreditsApproved, message, "")
}

func (n *NotificationService) handleCreditsRejected(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CreditsResolvedPayload)
	if !ok {
		return nil
	}
	return n.Notify(ctx, payload.UserID, domain.NotifyCreditsRejected, "Your request for additional credits has been rejected.", "")
}

func (n *NotificationService) handleCreditsGranted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CreditsResolvedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("An administrator granted you %d additional submission credit(s).", payload.CreditsGranted)
	return n.Notify(ctx, payload.UserID, domain.NotifyCreditsGranted, message, "")
}

func (n *NotificationService) handleUserWarned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ModerationPayload)
	if !ok {
		return nil
	}
	return n.Notify(ctx, payload.UserID, domain.NotifyWarning, fmt.Sprintf("Warning: %s", payload.Reason), "")
}

func (n *NotificationService) handleUserBlocked(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ModerationPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your account has been blocked. Reason: %s", payload.Reason)
	return n.Notify(ctx, payload.UserID, domain.NotifyBlocked, message, "")
}

func (n *NotificationService) handleUserUnblocked(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ModerationPayload)
	if !ok {
		return nil
	}
	return n.Notify(ctx, payload.UserID, domain.NotifyUnblocked, "Your account has been unblocked.", "")
}
