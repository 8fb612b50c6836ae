package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karobar-books/karobar/internal/app"
	"github.com/karobar-books/karobar/internal/auth"
	"github.com/karobar-books/karobar/internal/dashboard"
	"github.com/karobar-books/karobar/internal/expenses"
	"github.com/karobar-books/karobar/internal/masterdata"
	"github.com/karobar-books/karobar/internal/notify"
	"github.com/karobar-books/karobar/internal/platform/cache"
	"github.com/karobar-books/karobar/internal/platform/sheets"
	"github.com/karobar-books/karobar/internal/procurement"
	"github.com/karobar-books/karobar/internal/sales"
	"github.com/karobar-books/karobar/internal/shared"
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

	store, err := sheets.NewClient(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
	if err != nil {
		logger.Error("init sheets client", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	viewCache := cache.New(redisClient, cfg.CacheTTL)

	notifier := notify.NewService(store, logger, cfg.AdminUsername, nil)

	authService := auth.NewService(cfg.AdminUsername, cfg.AdminPasswordHash)
	dashboardService := dashboard.NewService(store, logger, nil)
	salesService := sales.NewService(store, logger, viewCache, notifier, nil)
	procurementService := procurement.NewService(store, logger, viewCache, notifier, nil)
	expensesService := expenses.NewService(store, logger, viewCache)
	masterdataService := masterdata.NewService(store, logger, viewCache)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		AuthHandler:        auth.NewHandler(logger, authService, sessionManager),
		DashboardHandler:   dashboard.NewHandler(logger, dashboardService, viewCache),
		SalesHandler:       sales.NewHandler(logger, salesService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		ExpensesHandler:    expenses.NewHandler(logger, expensesService),
		MasterDataHandler:  masterdata.NewHandler(logger, masterdataService),
		NotifyHandler:      notify.NewHandler(logger, notifier),
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
