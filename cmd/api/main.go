package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"moderator/api/internal/cache"
	"moderator/api/internal/classify"
	"moderator/api/internal/config"
	"moderator/api/internal/database"
	"moderator/api/internal/handlers"
	"moderator/api/internal/jobs"
	"moderator/api/internal/log"
	"moderator/api/internal/metrics"
	"moderator/api/internal/notify"
	"moderator/api/internal/queue"
	"moderator/api/internal/repository"
	"moderator/api/internal/server"
	"moderator/api/internal/service"
	"moderator/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	m := metrics.New()

	moderationRepo := repository.NewModerationRepository(dbPool)
	analyticsRepo := repository.NewAnalyticsRepository(dbPool)

	classifier := buildClassifier(cfg, logger)

	producer := queue.NewProducer(redisClient, cfg.Queue.Stream)

	var archive service.ImageArchive
	if cfg.Archive.Endpoint != "" {
		store, err := storage.NewArchiveStore(cfg.Archive)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init archive store")
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure archive bucket failed")
		}
		archive = store
	}

	moderationService := service.NewModerationService(moderationRepo, classifier, producer, archive, m, logger)

	notifiers := []notify.Notifier{
		notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout, logger),
		notify.NewEmailNotifier(cfg.Notify, logger),
	}
	dispatcher := notify.NewDispatcher(notifiers, moderationRepo, m, logger)
	consumer := queue.NewConsumer(redisClient, cfg.Queue, logger, dispatcher)

	reconciler := jobs.NewReconciler(cfg.Reconcile.Schedule, moderationRepo, producer, logger)
	if err := reconciler.Start(); err != nil {
		logger.Error().Err(err).Msg("reconciler start failed")
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, moderationService, analyticsRepo, m)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("dispatch consumer stopped unexpectedly")
		}
	}()

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, reconciler, stopConsumer, dbPool, redisClient)
}

func buildClassifier(cfg *config.AppConfig, logger zerolog.Logger) classify.Classifier {
	if cfg.Classifier.Provider != "mock" && cfg.Classifier.APIKey != "" {
		logger.Info().Str("provider", cfg.Classifier.Provider).Msg("using provider classifier")
		return classify.NewProviderClassifier(cfg.Classifier, logger)
	}
	logger.Info().Msg("using keyword mock classifier")
	return classify.NewKeywordClassifier()
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	reconciler *jobs.Reconciler,
	stopConsumer context.CancelFunc,
	db *pgxpool.Pool,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	reconciler.Stop()
	stopConsumer()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
