package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Arooma21/Odoo-Dashboard/internal/app"
	"github.com/Arooma21/Odoo-Dashboard/internal/ledger"
	"github.com/Arooma21/Odoo-Dashboard/internal/observability"
	"github.com/Arooma21/Odoo-Dashboard/internal/platform/cache"
	"github.com/Arooma21/Odoo-Dashboard/internal/platform/db"
	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
	recvhttp "github.com/Arooma21/Odoo-Dashboard/internal/recv/http"
	"github.com/Arooma21/Odoo-Dashboard/internal/view"
	"github.com/Arooma21/Odoo-Dashboard/jobs"
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

	sqldb, err := db.NewMSSQL(ctx, cfg.MSSQLDSN())
	if err != nil {
		logger.Error("connect sql server", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqldb.Close(); err != nil {
			logger.Warn("sql server close", slog.Any("error", err))
		}
	}()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The dashboard still works without Redis, every request just
		// pays the full ledger fetch.
		logger.Warn("redis unavailable, snapshot cache disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	templates, err := view.NewEngine(cfg.AmountPrecision)
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	ledgerRepo := ledger.NewRepository(sqldb)
	var snapshotCache *recv.Cache
	if redisClient != nil {
		snapshotCache = recv.NewCache(redisClient, cfg.SnapshotTTL)
	}
	reportService := recv.NewService(ledgerRepo, snapshotCache, logger, cfg.AmountPrecision)
	recvHandler := recvhttp.NewHandler(logger, reportService, templates)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		RecvHandler: recvHandler,
		JobHandler:  jobHandler,
		Metrics:     metrics,
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
