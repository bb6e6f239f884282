package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hydrationdev/hydration-os/api/routes"
	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/internal/account"
	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/internal/content"
	"github.com/hydrationdev/hydration-os/internal/events"
	"github.com/hydrationdev/hydration-os/internal/identity"
	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/internal/subscriptions"
	"github.com/hydrationdev/hydration-os/pkg/auth"
	"github.com/hydrationdev/hydration-os/pkg/config"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/metrics"
	"github.com/hydrationdev/hydration-os/pkg/migrate"
	"github.com/hydrationdev/hydration-os/pkg/pagination"
	"github.com/hydrationdev/hydration-os/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	verifier, err := auth.NewVerifier(ctx, cfg.Identity)
	if err != nil {
		logg.Error(ctx, "failed to create identity verifier", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := accessor.NewObserver(logg, metrics.NewAccessorMetrics(registry))

	params, err := buildServices(cfg, logg, dbClient, observer)
	if err != nil {
		logg.Error(ctx, "failed to create services", err)
		os.Exit(1)
	}
	params.Config = cfg
	params.Logger = logg
	params.DB = dbClient
	params.Redis = redisClient
	params.Verifier = verifier
	params.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	params.Gatherer = registry

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, observer *accessor.Observer) (routes.Params, error) {
	conn := dbClient.DB()

	profileSvc, err := profiles.NewService(profiles.ServiceParams{
		Repo:     profiles.NewRepository(conn),
		Observer: observer,
	})
	if err != nil {
		return routes.Params{}, err
	}
	subscriptionSvc, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:     subscriptions.NewRepository(conn),
		Observer: observer,
	})
	if err != nil {
		return routes.Params{}, err
	}
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalog.NewRepository(conn),
		Observer: observer,
		Limits:   pagination.Bounds{Default: cfg.Catalog.DefaultLimit, Max: cfg.Catalog.MaxLimit},
	})
	if err != nil {
		return routes.Params{}, err
	}
	eventSvc, err := events.NewService(events.ServiceParams{
		Repo:     events.NewRepository(conn),
		DB:       dbClient,
		Observer: observer,
	})
	if err != nil {
		return routes.Params{}, err
	}
	contentSvc, err := content.NewService(content.ServiceParams{
		Repo:     content.NewRepository(conn),
		Observer: observer,
	})
	if err != nil {
		return routes.Params{}, err
	}
	accountSvc, err := account.NewService(account.ServiceParams{
		Subscriptions: subscriptionSvc,
		Catalog:       catalogSvc,
	})
	if err != nil {
		return routes.Params{}, err
	}
	bridge, err := identity.NewBridge(identity.BridgeParams{
		Profiles: profileSvc,
		Logger:   logg,
	})
	if err != nil {
		return routes.Params{}, err
	}

	return routes.Params{
		Bridge:        bridge,
		Profiles:      profileSvc,
		Subscriptions: subscriptionSvc,
		Catalog:       catalogSvc,
		Events:        eventSvc,
		Content:       contentSvc,
		Account:       accountSvc,
	}, nil
}
