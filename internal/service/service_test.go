package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/classifier"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/store"
)

type testEnv struct {
	users         repository.UserRepository
	grievances    *GrievanceService
	credits       *CreditService
	moderation    *ModerationService
	notifications *NotificationService
	dispatcher    events.Dispatcher
}

func testCreditConfig() config.CreditConfig {
	return config.CreditConfig{
		InitialCredits:      3,
		ReplenishCap:        3,
		ReplenishAfterHours: 24,
		MinReasonLength:     10,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gw := store.NewMemory()
	userRepo := repository.NewUserRepository(gw)
	grievanceRepo := repository.NewGrievanceRepository(gw)
	requestRepo := repository.NewCreditRequestRepository(gw)
	notificationRepo := repository.NewNotificationRepository(gw)

	dispatcher := events.NewInMemoryDispatcher()
	creditService := NewCreditService(testCreditConfig(), CreditDependencies{
		UserRepo:    userRepo,
		RequestRepo: requestRepo,
		Dispatcher:  dispatcher,
	})
	grievanceService := NewGrievanceService(GrievanceDependencies{
		GrievanceRepo: grievanceRepo,
		UserRepo:      userRepo,
		Credits:       creditService,
		Classifier:    classifier.New(config.DefaultVocabulary()),
		Dispatcher:    dispatcher,
	})
	notificationService := NewNotificationService(notificationRepo, dispatcher, zap.NewNop())
	notificationService.RegisterHandlers()

	return &testEnv{
		users:         userRepo,
		grievances:    grievanceService,
		credits:       creditService,
		moderation:    NewModerationService(userRepo, dispatcher),
		notifications: notificationService,
		dispatcher:    dispatcher,
	}
}

func (e *testEnv) createUser(t *testing.T, name string, isAdmin bool) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:             name,
		Email:            name + "@example.com",
		IsAdmin:          isAdmin,
		Status:           domain.ModerationActive,
		GrievanceCredits: domain.InitialCredits,
		LastCreditUpdate: time.Now(),
		CreatedAt:        time.Now(),
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) submit(t *testing.T, user *domain.User, title, description string) *domain.Grievance {
	t.Helper()
	grievance, err := e.grievances.Submit(context.Background(), user.ID, SubmitInput{
		Title:       title,
		Description: description,
	})
	require.NoError(t, err)
	return grievance
}

func (e *testEnv) notificationsFor(t *testing.T, recipient string) []domain.Notification {
	t.Helper()
	items, err := e.notifications.ListForRecipient(context.Background(), recipient)
	require.NoError(t, err)
	return items
}
