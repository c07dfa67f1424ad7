package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

func newTestAuthService(env *testEnv) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
		Credits: testCreditConfig(),
	}
	return NewAuthService(cfg, env.users)
}

func TestRegisterSeedsCredits(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuthService(env)
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, "Alice", "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, domain.ModerationActive, user.Status)
	require.Equal(t, 3, user.GrievanceCredits)
	require.False(t, user.IsAdmin)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.False(t, claims.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuthService(env)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Bobby", "BOB@example.com", "hunter22")
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuthService(env)
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, "Carol", "carol@example.com", "hunter22")
	require.NoError(t, err)

	user, token, _, err := svc.Login(ctx, "carol@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)

	_, _, _, err = svc.Login(ctx, "carol@example.com", "wrong")
	require.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	require.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestBlockedUserCanStillLogIn(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuthService(env)
	admin := env.createUser(t, "admin", true)
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, "Dave", "dave@example.com", "hunter22")
	require.NoError(t, err)
	_, err = env.moderation.Block(ctx, registered.ID, "spam", admin)
	require.NoError(t, err)

	user, _, _, err := svc.Login(ctx, "dave@example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, user.Blocked())
	require.Equal(t, "spam", user.BlockReason)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuthService(env)
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Erin", "erin@example.com", "hunter22")
	require.NoError(t, err)

	require.True(t, apperrors.IsCode(
		svc.ChangePassword(ctx, user.ID, "wrong", "newpassword"), "UNAUTHORIZED"))
	require.True(t, apperrors.IsCode(
		svc.ChangePassword(ctx, user.ID, "hunter22", "short"), "VALIDATION_FAILED"))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "hunter22", "newpassword"))

	_, _, _, err = svc.Login(ctx, "erin@example.com", "newpassword")
	require.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "erin@example.com", "hunter22")
	require.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}
