package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
)

func TestEventCollectorsFeedCounters(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	dispatcher := events.NewInMemoryDispatcher()
	RegisterEventCollectors(dispatcher, metrics)
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventGrievanceCreated,
		Payload: events.GrievanceCreatedPayload{Priority: domain.PriorityUrgent},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventStatusChanged,
		Payload: events.StatusChangedPayload{NewStatus: domain.GrievanceStatusInProgress},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventCreditDenied,
		Payload: events.CreditDeniedPayload{UserID: "u1"},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventNotificationStored,
		Payload: events.NotificationStoredPayload{Recipient: "u1", Kind: domain.NotifyComment},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:    events.EventNotificationStored,
		Payload: events.NotificationStoredPayload{Recipient: "u1", Kind: domain.NotifyComment},
	}))

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.grievances.WithLabelValues(string(domain.PriorityUrgent))))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.transitions.WithLabelValues(string(domain.GrievanceStatusInProgress))))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.creditDenials))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(string(domain.NotifyComment))))
}
