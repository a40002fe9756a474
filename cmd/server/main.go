package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/auth"
	"github.com/tdsa-academy/academy-service/internal/cache"
	"github.com/tdsa-academy/academy-service/internal/config"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/handlers"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/renderer"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/repositories/memory"
	"github.com/tdsa-academy/academy-service/internal/repositories/postgres"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/storage"
	"github.com/tdsa-academy/academy-service/internal/utils"
	"github.com/tdsa-academy/academy-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Slog()

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}

	deps := services.Dependencies{
		Repo:         repo,
		Tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Renderer:     renderer.NewPDFRenderer(cfg.CertificateTemplate, log),
		Logger:       log,
		CallTimeout:  cfg.ExternalCallTimeout,
		QuizCacheTTL: cfg.QuizCacheTTL,
	}

	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Cache = cache.NewRedisCache(client, log)
		deps.Sequence = cache.NewRedisSequence(client)
		logger.Info("Redis cache enabled")
	}

	blobs, err := storage.NewFSStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
	if err != nil {
		return err
	}
	deps.Blobs = blobs

	if cfg.SendGridAPIKey != "" {
		deps.Notifier = notifier.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom, log)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, e-mails are only logged")
		deps.Notifier = notifier.NewLogNotifier(log)
	}

	bus, err := cfg.Events.CreateEventBus(log)
	if err != nil {
		return err
	}
	defer bus.Publisher.Close()
	deps.Publisher = bus.Publisher

	serviceManager := services.NewServiceManager(deps)

	if bus.Subscriber != nil {
		consumer, err := events.NewConsumer(bus.Subscriber, events.ConsumerConfig{
			TopicName: cfg.Events.NotificationTopic,
			Logger:    log,
		})
		if err != nil {
			return err
		}
		services.RegisterEventHandlers(consumer, serviceManager)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("Event consumer stopped", "error", err)
			}
		}()
		defer consumer.Close()
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := serviceManager.Auth().EnsureAccount(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, logger, serviceManager, blobs.Dir()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepository(cfg *config.Config, log *slog.Logger) (repositories.Repository, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return memory.NewStore(), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return nil, err
	}
	return postgres.NewRepository(db), nil
}

func newRouter(cfg *config.Config, logger utils.Logger, serviceManager services.ServiceManager, uploadDir string) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		utils.ContextLogger(logger),
		utils.LoggerMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", utils.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", utils.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	router.MaxMultipartMemory = 10 << 20
	router.Static("/uploads", uploadDir)

	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router)
	return router
}
