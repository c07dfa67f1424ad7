package observability

import (
	"context"

	"github.com/spec-kit/grievance-service/internal/events"
)

// RegisterEventCollectors subscribes metric counters to the domain event
// stream so services stay free of instrumentation calls.
func RegisterEventCollectors(dispatcher events.Dispatcher, metrics *Metrics) {
	if metrics == nil {
		return
	}
	dispatcher.Subscribe(events.EventGrievanceCreated, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.GrievanceCreatedPayload); ok {
			metrics.RecordSubmission(string(payload.Priority))
		}
		return nil
	})
	dispatcher.Subscribe(events.EventStatusChanged, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.StatusChangedPayload); ok {
			metrics.RecordTransition(string(payload.NewStatus))
		}
		return nil
	})
	dispatcher.Subscribe(events.EventCreditDenied, func(_ context.Context, _ events.Event) error {
		metrics.RecordCreditDenial()
		return nil
	})
	dispatcher.Subscribe(events.EventNotificationStored, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.NotificationStoredPayload); ok {
			metrics.RecordNotification(string(payload.Kind))
		}
		return nil
	})
}
