package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/store"
)

const notificationsPath = "notifications"

// NotificationRepository encapsulates notification persistence. Records are
// append-only; the only mutation is the read acknowledgement.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipient, id string) error
}

type notificationRepository struct {
	gw store.Gateway
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(gw store.Gateway) NotificationRepository {
	return &notificationRepository{gw: gw}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	key, err := r.gw.Append(ctx, notificationsPath+"/"+notification.Recipient, notification)
	if err != nil {
		return err
	}
	notification.ID = key
	return nil
}

// ListByRecipient returns notifications in creation order. Store keys only
// order at second granularity, so CreatedAt breaks same-second ties.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error) {
	children, err := r.gw.List(ctx, notificationsPath+"/"+recipient)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(children))
	for _, key := range store.SortedKeys(children) {
		var notification domain.Notification
		if err := json.Unmarshal(children[key], &notification); err != nil {
			return nil, err
		}
		notification.ID = key
		out = append(out, notification)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipient, id string) error {
	return r.gw.Merge(ctx, notificationsPath+"/"+recipient+"/"+id, map[string]any{"read": true})
}
