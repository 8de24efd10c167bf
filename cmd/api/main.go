package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/velodesk/repair-service/internal/api/http"
	"github.com/velodesk/repair-service/internal/api/http/handlers"
	"github.com/velodesk/repair-service/internal/config"
	"github.com/velodesk/repair-service/internal/events"
	"github.com/velodesk/repair-service/internal/observability"
	"github.com/velodesk/repair-service/internal/persistence"
	"github.com/velodesk/repair-service/internal/repository"
	"github.com/velodesk/repair-service/internal/service"
	"github.com/velodesk/repair-service/internal/uploads"
	"github.com/velodesk/repair-service/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var ticketRepo repository.TicketRepository
	var warrantyRepo repository.WarrantyRepository
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
		warrantyRepo = repository.NewWarrantyRepository(pool)
	} else {
		logger.Warn("using in-memory store; data will not survive restarts")
		ticketRepo = repository.NewMemoryTicketRepository()
		warrantyRepo = repository.NewMemoryWarrantyRepository()
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	cacheTTL := cfg.Redis.ListCacheTTL()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Redis:      redis,
		CacheTTL:   cacheTTL,
		Logger:     logger,
	})
	warrantyService := service.NewWarrantyService(service.WarrantyDependencies{
		WarrantyRepo: warrantyRepo,
		Dispatcher:   dispatcher,
		Redis:        redis,
		CacheTTL:     cacheTTL,
		Logger:       logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	var uploadsHandler *handlers.UploadsHandler
	if cfg.Uploads.S3Bucket != "" {
		uploadService, err := uploads.New(ctx, cfg.Uploads)
		if err != nil {
			logger.Fatal("failed to init uploads", zap.Error(err))
		}
		uploadsHandler = handlers.NewUploadsHandler(uploadService)
	} else {
		logger.Warn("UPLOADS_S3_BUCKET not provided; upload endpoint disabled")
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:    handlers.NewTicketsHandler(ticketService),
		Warranties: handlers.NewWarrantiesHandler(warrantyService),
		Uploads:    uploadsHandler,
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
