package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

func TestConsumeDecrementsAndStamps(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", false)
	before := time.Now()

	updated, err := env.credits.Consume(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InitialCredits-1, updated.GrievanceCredits)
	require.False(t, updated.LastCreditUpdate.Before(before))
}

func TestConsumeExhausted(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "bob", false)
	ctx := context.Background()

	for i := 0; i < domain.InitialCredits; i++ {
		_, err := env.credits.Consume(ctx, user.ID)
		require.NoError(t, err)
	}

	_, err := env.credits.Consume(ctx, user.ID)
	require.True(t, apperrors.IsCode(err, "INSUFFICIENT_CREDITS"))

	refreshed, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, refreshed.GrievanceCredits)
}

func TestConsumeDenialIsPublished(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "dave", false)
	ctx := context.Background()

	var denied []events.CreditDeniedPayload
	env.dispatcher.Subscribe(events.EventCreditDenied, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.CreditDeniedPayload); ok {
			denied = append(denied, payload)
		}
		return nil
	})

	for i := 0; i < domain.InitialCredits; i++ {
		_, err := env.credits.Consume(ctx, user.ID)
		require.NoError(t, err)
	}
	require.Empty(t, denied)

	_, err := env.credits.Consume(ctx, user.ID)
	require.True(t, apperrors.IsCode(err, "INSUFFICIENT_CREDITS"))
	require.Len(t, denied, 1)
	require.Equal(t, user.ID, denied[0].UserID)
}

func TestRequestMoreValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "carol", false)
	ctx := context.Background()

	_, err := env.credits.RequestMore(ctx, user.ID, "too short")
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	request, err := env.credits.RequestMore(ctx, user.ID, "I used all my credits on legitimate reports")
	require.NoError(t, err)
	require.Equal(t, domain.CreditRequestPending, request.Status)
	require.Equal(t, user.Name, request.UserName)

	// A second pending request is refused.
	_, err = env.credits.RequestMore(ctx, user.ID, "Another plea while one is still pending")
	require.True(t, apperrors.IsCode(err, "DUPLICATE_REQUEST"))
}

func TestRequestMoreBlockedUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "dave", false)
	ctx := context.Background()

	_, err := env.moderation.Block(ctx, user.ID, "abuse", admin)
	require.NoError(t, err)

	_, err = env.credits.RequestMore(ctx, user.ID, "Please let me submit grievances again")
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestApproveCreditsAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "erin", false)
	ctx := context.Background()

	request, err := env.credits.RequestMore(ctx, user.ID, "Several unresolved issues in my neighborhood")
	require.NoError(t, err)

	resolved, err := env.credits.Approve(ctx, request.ID, 2, admin)
	require.NoError(t, err)
	require.Equal(t, domain.CreditRequestApproved, resolved.Status)
	require.Equal(t, 2, resolved.CreditsGranted)
	require.Equal(t, admin.ID, resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	refreshed, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InitialCredits+2, refreshed.GrievanceCredits)

	notifications := env.notificationsFor(t, user.ID)
	require.Len(t, notifications, 1)
	require.Equal(t, domain.NotifyCreditsApproved, notifications[0].Kind)

	// Resolution is terminal.
	_, err = env.credits.Approve(ctx, request.ID, 1, admin)
	require.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestApproveRequiresPositiveGrant(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "frank", false)
	ctx := context.Background()

	request, err := env.credits.RequestMore(ctx, user.ID, "Ran out while reporting a recurring issue")
	require.NoError(t, err)

	_, err = env.credits.Approve(ctx, request.ID, 0, admin)
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestRejectLeavesBalanceUntouched(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "grace", false)
	ctx := context.Background()

	request, err := env.credits.RequestMore(ctx, user.ID, "I would like more credits for future reports")
	require.NoError(t, err)

	resolved, err := env.credits.Reject(ctx, request.ID, admin)
	require.NoError(t, err)
	require.Equal(t, domain.CreditRequestRejected, resolved.Status)

	refreshed, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InitialCredits, refreshed.GrievanceCredits)

	notifications := env.notificationsFor(t, user.ID)
	require.Len(t, notifications, 1)
	require.Equal(t, domain.NotifyCreditsRejected, notifications[0].Kind)

	// After rejection the user may file again.
	_, err = env.credits.RequestMore(ctx, user.ID, "Trying again after the earlier rejection")
	require.NoError(t, err)
}

func TestGrantDirectExceedsCap(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "heidi", false)
	ctx := context.Background()

	updated, err := env.credits.GrantDirect(ctx, user.ID, 5, admin)
	require.NoError(t, err)
	require.Equal(t, domain.InitialCredits+5, updated.GrievanceCredits)

	notifications := env.notificationsFor(t, user.ID)
	require.Len(t, notifications, 1)
	require.Equal(t, domain.NotifyCreditsGranted, notifications[0].Kind)
}

func TestGrantDirectRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ivan", false)

	_, err := env.credits.GrantDirect(context.Background(), user.ID, 1, user)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestReplenishRespectsCapAndInterval(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "judy", false)
	ctx := context.Background()

	// At the cap: nothing happens.
	granted, err := env.credits.Replenish(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, granted)

	_, err = env.credits.Consume(ctx, user.ID)
	require.NoError(t, err)

	// Below the cap but the interval has not elapsed.
	granted, err = env.credits.Replenish(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, granted)

	// Backdate the last balance change past the interval.
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, env.users.Merge(ctx, user.ID, map[string]any{"lastCreditUpdate": stale}))

	granted, err = env.credits.Replenish(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, granted)

	refreshed, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InitialCredits, refreshed.GrievanceCredits)

	// Replenishment is silent.
	require.Empty(t, env.notificationsFor(t, user.ID))
}

func TestReplenishSkipsBlockedUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "kim", false)
	ctx := context.Background()

	_, err := env.credits.Consume(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.moderation.Block(ctx, user.ID, "spam", admin)
	require.NoError(t, err)

	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, env.users.Merge(ctx, user.ID, map[string]any{"lastCreditUpdate": stale}))

	granted, err := env.credits.Replenish(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, granted)
}

func TestReplenishAllSweep(t *testing.T) {
	env := newTestEnv(t)
	eligible := env.createUser(t, "lena", false)
	full := env.createUser(t, "mike", false)
	ctx := context.Background()

	_, err := env.credits.Consume(ctx, eligible.ID)
	require.NoError(t, err)
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, env.users.Merge(ctx, eligible.ID, map[string]any{"lastCreditUpdate": stale}))

	granted, err := env.credits.ReplenishAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, granted)

	refreshed, err := env.users.GetByID(ctx, full.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InitialCredits, refreshed.GrievanceCredits)
}

func TestListPendingRequests(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	first := env.createUser(t, "nina", false)
	second := env.createUser(t, "oscar", false)
	ctx := context.Background()

	r1, err := env.credits.RequestMore(ctx, first.ID, "Used every credit on real problems here")
	require.NoError(t, err)
	_, err = env.credits.RequestMore(ctx, second.ID, "Need more submission credits for my street")
	require.NoError(t, err)

	_, err = env.credits.Reject(ctx, r1.ID, admin)
	require.NoError(t, err)

	pending, err := env.credits.ListPendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].UserID)
}
