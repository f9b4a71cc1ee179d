package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lonoleggi/lonoleggi-backend/internal/cron"
	"github.com/lonoleggi/lonoleggi-backend/internal/equipment"
	"github.com/lonoleggi/lonoleggi-backend/internal/notifications"
	"github.com/lonoleggi/lonoleggi-backend/internal/rentals"
	"github.com/lonoleggi/lonoleggi-backend/pkg/config"
	"github.com/lonoleggi/lonoleggi-backend/pkg/db"
	"github.com/lonoleggi/lonoleggi-backend/pkg/logger"
	"github.com/lonoleggi/lonoleggi-backend/pkg/metrics"
	"github.com/lonoleggi/lonoleggi-backend/pkg/migrate"
	"github.com/lonoleggi/lonoleggi-backend/pkg/outbox"
	"github.com/lonoleggi/lonoleggi-backend/pkg/redis"
	"github.com/lonoleggi/lonoleggi-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	emitter, err := notifications.NewEmitter(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification emitter", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	outboxRepo := outbox.NewRepository(dbClient.DB())
	rentalsService, err := rentals.NewService(rentals.ServiceParams{
		Tx:        dbClient,
		Repo:      rentals.NewRepository(dbClient.DB()),
		Equipment: equipment.NewRepository(dbClient.DB()),
		Outbox:    outbox.NewService(outboxRepo, logg),
		Notifier:  emitter,
		Payments:  stripeClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create rentals service", err)
		os.Exit(1)
	}

	rentalTTLJob, err := cron.NewRentalTTLJob(cron.RentalTTLJobParams{
		Logger:  logg,
		Rentals: rentalsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create rental ttl job", err)
		os.Exit(1)
	}

	notificationCleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: notificationsRepo,
		Retention:  cfg.Cron.NotificationRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	outboxRetentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outboxRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(rentalTTLJob, notificationCleanupJob, outboxRetentionJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
