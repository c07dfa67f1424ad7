package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
)

func TestNotifyPublishesStoredEvent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "erin", false)
	ctx := context.Background()

	var stored []events.NotificationStoredPayload
	env.dispatcher.Subscribe(events.EventNotificationStored, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.NotificationStoredPayload); ok {
			stored = append(stored, payload)
		}
		return nil
	})

	require.NoError(t, env.notifications.Notify(ctx, user.ID, domain.NotifyWarning, "formal warning", ""))

	require.Len(t, stored, 1)
	require.Equal(t, user.ID, stored[0].Recipient)
	require.Equal(t, domain.NotifyWarning, stored[0].Kind)
}
