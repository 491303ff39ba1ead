package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dcortinas/fablink-backend/api/routes"
	"github.com/dcortinas/fablink-backend/internal/changerequests"
	"github.com/dcortinas/fablink-backend/internal/coverage"
	"github.com/dcortinas/fablink-backend/internal/kickoff"
	"github.com/dcortinas/fablink-backend/internal/messages"
	"github.com/dcortinas/fablink-backend/internal/offers"
	"github.com/dcortinas/fablink-backend/internal/providers"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/internal/savedsearches"
	"github.com/dcortinas/fablink-backend/pkg/config"
	"github.com/dcortinas/fablink-backend/pkg/db"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/migrate"
	"github.com/dcortinas/fablink-backend/pkg/outbox"
	"github.com/dcortinas/fablink-backend/pkg/redis"
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

	caps := db.ResolveCapabilities(context.Background(), dbClient.DB(), logg)
	emitter := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	quotesRepo := quotes.NewRepository(dbClient.DB())
	offersRepo := offers.NewRepository(dbClient.DB())

	providersService, err := providers.NewService(providers.NewRepository(dbClient.DB()), caps, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create provider service", err)
		os.Exit(1)
	}

	quotesService, err := quotes.NewService(quotesRepo, dbClient, emitter, offersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	offersService, err := offers.NewService(offersRepo, quotesRepo, providersService, providersService, offers.PolicyFromConfig(cfg.Compare), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create offer service", err)
		os.Exit(1)
	}

	kickoffService, err := kickoff.NewService(kickoff.NewRepository(dbClient.DB()), quotesRepo, dbClient, emitter)
	if err != nil {
		logg.Error(context.Background(), "failed to create kickoff service", err)
		os.Exit(1)
	}

	coverageService, err := coverage.NewService(providersService, caps)
	if err != nil {
		logg.Error(context.Background(), "failed to create coverage service", err)
		os.Exit(1)
	}

	savedSearchService, err := savedsearches.NewService(savedsearches.NewRepository(dbClient.DB()), caps)
	if err != nil {
		logg.Error(context.Background(), "failed to create saved search service", err)
		os.Exit(1)
	}

	messagesService, err := messages.NewService(messages.NewRepository(dbClient.DB()), quotesRepo, dbClient, emitter)
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}

	changeRequestService, err := changerequests.NewService(changerequests.NewRepository(dbClient.DB()), quotesRepo, dbClient, emitter)
	if err != nil {
		logg.Error(context.Background(), "failed to create change request service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Quotes:         quotesService,
			Offers:         offersService,
			Kickoff:        kickoffService,
			Coverage:       coverageService,
			SavedSearches:  savedSearchService,
			Messages:       messagesService,
			Providers:      providersService,
			ChangeRequests: changeRequestService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
