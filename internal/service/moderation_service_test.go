package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

func TestWarnIncrementsCounter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "alice", false)
	ctx := context.Background()

	warned, err := env.moderation.Warn(ctx, user.ID, "Abusive language in a comment", admin)
	require.NoError(t, err)
	require.Equal(t, domain.ModerationWarned, warned.Status)
	require.Equal(t, 1, warned.Warnings)
	require.Equal(t, "Abusive language in a comment", warned.WarningReason)
	require.NotNil(t, warned.LastWarningDate)

	warned, err = env.moderation.Warn(ctx, user.ID, "Second offense", admin)
	require.NoError(t, err)
	require.Equal(t, 2, warned.Warnings)

	notifications := env.notificationsFor(t, user.ID)
	require.Len(t, notifications, 2)
	require.Equal(t, domain.NotifyWarning, notifications[0].Kind)
	require.Contains(t, notifications[0].Message, "Abusive language in a comment")
}

func TestWarnDefaultsReason(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "bob", false)

	warned, err := env.moderation.Warn(context.Background(), user.ID, "  ", admin)
	require.NoError(t, err)
	require.Equal(t, "Violation of platform policies", warned.WarningReason)
}

func TestWarnBlockedUserFails(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "carol", false)
	ctx := context.Background()

	_, err := env.moderation.Block(ctx, user.ID, "spam", admin)
	require.NoError(t, err)

	_, err = env.moderation.Warn(ctx, user.ID, "extra warning", admin)
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestBlockAndUnblock(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "dave", false)
	ctx := context.Background()

	// Two warnings, then a block. Warnings survive the whole cycle.
	_, err := env.moderation.Warn(ctx, user.ID, "first", admin)
	require.NoError(t, err)
	_, err = env.moderation.Warn(ctx, user.ID, "second", admin)
	require.NoError(t, err)

	blocked, err := env.moderation.Block(ctx, user.ID, "Repeated violations", admin)
	require.NoError(t, err)
	require.Equal(t, domain.ModerationBlocked, blocked.Status)
	require.Equal(t, "Repeated violations", blocked.BlockReason)
	require.NotNil(t, blocked.BlockDate)

	isBlocked, err := env.moderation.IsBlocked(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, isBlocked)

	unblocked, err := env.moderation.Unblock(ctx, user.ID, admin)
	require.NoError(t, err)
	require.Equal(t, domain.ModerationActive, unblocked.Status)
	require.Equal(t, 2, unblocked.Warnings)
	require.NotNil(t, unblocked.UnblockDate)

	notifications := env.notificationsFor(t, user.ID)
	require.Len(t, notifications, 4)
	require.Equal(t, domain.NotifyBlocked, notifications[2].Kind)
	require.Contains(t, notifications[2].Message, "Repeated violations")
	require.Equal(t, domain.NotifyUnblocked, notifications[3].Kind)
}

func TestUnblockActiveUserFails(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", true)
	user := env.createUser(t, "erin", false)

	_, err := env.moderation.Unblock(context.Background(), user.ID, admin)
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestModerationRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "frank", false)
	target := env.createUser(t, "grace", false)
	ctx := context.Background()

	_, err := env.moderation.Warn(ctx, target.ID, "nope", user)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	_, err = env.moderation.Block(ctx, target.ID, "nope", user)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	_, err = env.moderation.Unblock(ctx, target.ID, user)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}
