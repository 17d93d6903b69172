package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/Arooma21/Odoo-Dashboard/internal/app"
	"github.com/Arooma21/Odoo-Dashboard/internal/ledger"
	"github.com/Arooma21/Odoo-Dashboard/internal/platform/cache"
	"github.com/Arooma21/Odoo-Dashboard/internal/platform/db"
	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
	"github.com/Arooma21/Odoo-Dashboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	ledgerRepo := ledger.NewRepository(sqldb)
	snapshotCache := recv.NewCache(redisClient, cfg.SnapshotTTL)
	reportService := recv.NewService(ledgerRepo, snapshotCache, logger, cfg.AmountPrecision)

	warmupJob := jobs.NewAgingWarmupJob(reportService, logger, nil)

	warmupTask, err := jobs.NewAgingWarmupTask(jobs.AgingWarmupPayload{WarmDetails: true})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRecvAgingWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
