package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fault-report-service/internal/api/http"
	"github.com/spec-kit/fault-report-service/internal/api/http/handlers"
	"github.com/spec-kit/fault-report-service/internal/auth"
	"github.com/spec-kit/fault-report-service/internal/config"
	"github.com/spec-kit/fault-report-service/internal/events"
	"github.com/spec-kit/fault-report-service/internal/observability"
	"github.com/spec-kit/fault-report-service/internal/persistence"
	"github.com/spec-kit/fault-report-service/internal/repository"
	"github.com/spec-kit/fault-report-service/internal/service"
	"github.com/spec-kit/fault-report-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	profileRepo := repository.NewStaffProfileRepository(pool)
	reportRepo := repository.NewFaultReportRepository(pool)
	feedbackRepo := repository.NewStaffFeedbackRepository(pool)

	sessionStore := auth.NewRedisSessionStore(redis, cfg.Auth.SessionTTL())
	confirmationStore := auth.NewRedisConfirmationStore(redis, 0)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		ProfileRepo:       profileRepo,
		SessionStore:      sessionStore,
		ConfirmationStore: confirmationStore,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessionStore, profileRepo)

	dispatcher := events.NewInMemoryDispatcher()
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:   reportRepo,
		FeedbackRepo: feedbackRepo,
		Dispatcher:   dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	metricsHandler := handlers.NewMetricsHandler(metrics)
	authHandler := handlers.NewAuthHandler(authService)
	reportsHandler := handlers.NewReportsHandler(reportService)
	staffReportsHandler := handlers.NewStaffReportsHandler(reportService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Metrics:        metricsHandler,
		Auth:           authHandler,
		Reports:        reportsHandler,
		StaffReports:   staffReportsHandler,
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
