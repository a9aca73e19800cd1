package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/simula-fin/simula/internal/app"
	"github.com/simula-fin/simula/internal/catalog"
	cataloghttp "github.com/simula-fin/simula/internal/catalog/http"
	"github.com/simula-fin/simula/internal/handoff"
	handoffhttp "github.com/simula-fin/simula/internal/handoff/http"
	"github.com/simula-fin/simula/internal/observability"
	"github.com/simula-fin/simula/internal/platform/cache"
	"github.com/simula-fin/simula/internal/platform/db"
	"github.com/simula-fin/simula/internal/simulation"
	simulationhttp "github.com/simula-fin/simula/internal/simulation/http"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	if err := catalogService.Load(ctx); err != nil {
		logger.Error("load catalog", slog.Any("error", err))
		os.Exit(1)
	}
	catalogHandler := cataloghttp.NewHandler(logger, catalogService)

	metrics := observability.NewMetrics()

	engine := simulation.NewEngine(catalogService, cfg.TargetIRR)
	engine.OnGridFallback = metrics.IRRFallbacksTotal.Inc
	simulationCache := simulation.NewCache(redisClient, cfg.SimulationCacheTTL)
	simulationService := simulation.NewService(engine, simulationCache, logger, metrics)
	simulationHandler := simulationhttp.NewHandler(logger, simulationService)

	handoffStore := handoff.NewStore(redisClient, cfg.HandoffTTL)
	handoffHandler := handoffhttp.NewHandler(logger, handoffStore)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CatalogHandler:    catalogHandler,
		SimulationHandler: simulationHandler,
		HandoffHandler:    handoffHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
