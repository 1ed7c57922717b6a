package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EsakiSelvam05/pq-tracker-v2/internal/app"
	"github.com/EsakiSelvam05/pq-tracker-v2/internal/legacy"
	"github.com/EsakiSelvam05/pq-tracker-v2/internal/observability"
	"github.com/EsakiSelvam05/pq-tracker-v2/internal/platform/db"
	"github.com/EsakiSelvam05/pq-tracker-v2/internal/records"
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

	if err := db.Migrate(cfg.PGDSN); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var legacyStore records.LegacyStore
	if cfg.LegacyStorePath != "" {
		store, err := legacy.Open(cfg.LegacyStorePath)
		if err != nil {
			logger.Error("open legacy store", slog.Any("error", err))
			os.Exit(1)
		}
		defer store.Close()
		legacyStore = store
	}

	repo := records.NewRepository(pool)
	service := records.NewService(repo, legacyStore, logger)
	handler := records.NewHandler(logger, service, cfg.MaxUploadBytes)
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		RecordsHandler: handler,
		Metrics:        metrics,
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
