package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventGrievanceCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	d.Subscribe(EventStatusChanged, func(_ context.Context, event Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventGrievanceCreated, ID: "e1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "e1", got[0].ID)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventUserBlocked, func(_ context.Context, _ Event) error {
		calls++
		return errors.New("handler failed")
	})
	d.Subscribe(EventUserBlocked, func(_ context.Context, _ Event) error {
		calls++
		return nil
	})

	// Side effects never roll back the triggering mutation.
	err := d.Publish(context.Background(), Event{Type: EventUserBlocked})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
