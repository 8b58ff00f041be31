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
	"go.uber.org/multierr"

	"github.com/angelmondragon/sgr-storefront/api/routes"
	"github.com/angelmondragon/sgr-storefront/internal/catalog"
	"github.com/angelmondragon/sgr-storefront/internal/chat"
	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	"github.com/angelmondragon/sgr-storefront/pkg/config"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
	"github.com/angelmondragon/sgr-storefront/pkg/maps"
	"github.com/angelmondragon/sgr-storefront/pkg/metrics"
	"github.com/angelmondragon/sgr-storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "web"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	startedAt := time.Now()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	requestMetrics := metrics.NewRequestMetrics(registry)

	backendClient := backend.NewClient(cfg.Backend.BaseURL, logg,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(requestMetrics),
	)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Info(ctx, "redis not configured, category cache is memory-only")
	}

	var mapsClient *maps.Client
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err = maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(ctx, "failed to create maps client", err)
			os.Exit(1)
		}
	} else {
		logg.Info(ctx, "maps api key not set, contact map falls back to coordinates")
	}

	directory, err := catalog.NewDirectory(backendClient, logg, catalog.WithCache(redisClient, cfg.Redis.CacheTTL))
	if err != nil {
		logg.Error(ctx, "failed to create category directory", err)
		os.Exit(1)
	}

	engine, err := catalog.NewEngine(backendClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create query engine", err)
		os.Exit(1)
	}
	go engine.Run(ctx)

	flows, err := catalog.NewFlows(backendClient, directory, engine, logg)
	if err != nil {
		logg.Error(ctx, "failed to create mutation flows", err)
		os.Exit(1)
	}

	chatSession, err := chat.NewSession(backendClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create chat session", err)
		os.Exit(1)
	}

	readiness := map[string]func(context.Context) error{
		"backend": func(ctx context.Context) error {
			_, err := backendClient.Health(ctx)
			return err
		},
	}
	if redisClient != nil {
		readiness["redis"] = redisClient.Ping
	}

	handler, err := routes.NewRouter(cfg, logg, engine, flows, directory, chatSession, mapsClient, registry, startedAt, readiness)
	if err != nil {
		logg.Error(ctx, "failed to build router", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting storefront server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	if closeErr != nil {
		logg.Error(logCtx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(logCtx, "shutdown complete")
}
