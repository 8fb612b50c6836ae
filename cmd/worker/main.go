package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/karobar-books/karobar/internal/app"
	"github.com/karobar-books/karobar/internal/notify"
	"github.com/karobar-books/karobar/internal/platform/sheets"
	"github.com/karobar-books/karobar/jobs"
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

	store, err := sheets.NewClient(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
	if err != nil {
		logger.Error("init sheets client", slog.Any("error", err))
		os.Exit(1)
	}

	notifier := notify.NewService(store, logger, cfg.AdminUsername, nil)
	scanJob := jobs.NewReceivablesScanJob(store, notifier, logger, nil)

	scanTask, err := jobs.NewReceivablesScanTask(jobs.ReceivablesScanPayload{})
	if err != nil {
		logger.Error("build scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReceivablesScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Nightly sweep after the business day closes.
			{Spec: "30 1 * * *", Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
