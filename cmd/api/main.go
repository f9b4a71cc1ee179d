package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lonoleggi/lonoleggi-backend/api/routes"
	checkoutsvc "github.com/lonoleggi/lonoleggi-backend/internal/checkout"
	"github.com/lonoleggi/lonoleggi-backend/internal/equipment"
	"github.com/lonoleggi/lonoleggi-backend/internal/notifications"
	"github.com/lonoleggi/lonoleggi-backend/internal/rentals"
	stripewebhook "github.com/lonoleggi/lonoleggi-backend/internal/webhooks/stripe"
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
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	equipmentRepo := equipment.NewRepository(dbClient.DB())
	equipmentService, err := equipment.NewService(equipmentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create equipment service", err)
		os.Exit(1)
	}

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	emitter, err := notifications.NewEmitter(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification emitter", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	rentalsRepo := rentals.NewRepository(dbClient.DB())
	rentalsService, err := rentals.NewService(rentals.ServiceParams{
		Tx:        dbClient,
		Repo:      rentalsRepo,
		Equipment: equipmentRepo,
		Outbox:    outboxService,
		Notifier:  emitter,
		Payments:  stripeClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create rentals service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:        dbClient,
		Equipment: equipmentRepo,
		Rentals:   rentalsService,
		Attacher:  rentalsRepo,
		Payments:  stripeClient,
		Config:    cfg.Checkout,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, stripewebhook.Scope)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}
	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Rentals: rentalsService,
		Guard:   webhookGuard,
		Metrics: metrics.NewWebhookMetrics(prometheus.DefaultRegisterer),
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			equipmentService,
			rentalsService,
			notificationsService,
			checkoutService,
			stripeClient,
			webhookService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
