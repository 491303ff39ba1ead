package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dcortinas/fablink-backend/internal/notifications"
	"github.com/dcortinas/fablink-backend/internal/providers"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/pkg/config"
	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/mailer"
	"github.com/dcortinas/fablink-backend/pkg/metrics"
	"github.com/dcortinas/fablink-backend/pkg/migrate"
	"github.com/dcortinas/fablink-backend/pkg/outbox/idempotency"
	"github.com/dcortinas/fablink-backend/pkg/pubsub"
	"github.com/dcortinas/fablink-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: notifications.ConsumerName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: notifications.ConsumerName,
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

	idemp, err := idempotency.NewManager(redisClient, cfg.Eventing.IdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	sender, err := mailer.NewClient(cfg.Mail)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail client", err)
		os.Exit(1)
	}

	dispatcher, err := notifications.NewDispatcher(
		quotes.NewRepository(dbClient.DB()),
		providers.NewRepository(dbClient.DB()),
		notifications.NewDeliveryLog(dbClient.DB()),
		sender,
		idemp,
		metrics.NewDispatchMetrics(prometheus.DefaultRegisterer),
		notifications.Options{
			AdminInbox:                  cfg.Mail.AdminInbox,
			Production:                  cfg.App.IsProd(),
			ChangeRequestCustomerEmails: cfg.Notify.ChangeRequestCustomerEmails,
		},
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatcher", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"subscription": cfg.PubSub.NotificationSubscription,
	})
	logg.Info(ctx, "starting notification worker")

	if err := dispatcher.Run(ctx, pubsubClient.NotificationSubscription()); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "notification worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "notification worker shutting down gracefully")
}
