package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/grievance-service/internal/api/http"
	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/classifier"
	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/persistence"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/service"
	"github.com/spec-kit/grievance-service/internal/store"
	"github.com/spec-kit/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	feed := store.NewRedisFeed(redis.Client, logger)
	gateway := store.NewPostgres(pg.PoolHandle(), feed)

	userRepo := repository.NewUserRepository(gateway)
	grievanceRepo := repository.NewGrievanceRepository(gateway)
	creditRequestRepo := repository.NewCreditRequestRepository(gateway)
	notificationRepo := repository.NewNotificationRepository(gateway)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	observability.RegisterEventCollectors(dispatcher, metrics)

	vocab := config.DefaultVocabulary()
	if cfg.Keywords.File != "" {
		vocab, err = config.LoadVocabulary(cfg.Keywords.File)
		if err != nil {
			logger.Fatal("failed to load keyword vocabulary", zap.Error(err))
		}
	}
	priorityClassifier := classifier.New(vocab)

	authService := service.NewAuthService(*cfg, userRepo)
	creditService := service.NewCreditService(cfg.Credits, service.CreditDependencies{
		UserRepo:    userRepo,
		RequestRepo: creditRequestRepo,
		Dispatcher:  dispatcher,
	})
	moderationService := service.NewModerationService(userRepo, dispatcher)
	grievanceService := service.NewGrievanceService(service.GrievanceDependencies{
		GrievanceRepo: grievanceRepo,
		UserRepo:      userRepo,
		Credits:       creditService,
		Classifier:    priorityClassifier,
		Dispatcher:    dispatcher,
	})
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger)

	worker.StartNotificationWorker(notificationService)

	replenishWorker := worker.NewReplenishWorker(creditService, logger, cfg.Credits.ReplenishCronSchedule)
	if err := replenishWorker.Start(ctx); err != nil {
		logger.Fatal("failed to start replenish worker", zap.Error(err))
	}
	defer replenishWorker.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Grievances:     handlers.NewGrievancesHandler(grievanceService),
		Admin:          handlers.NewAdminHandler(grievanceService, moderationService),
		Credits:        handlers.NewCreditsHandler(creditService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
