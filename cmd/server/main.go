package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/checker"
	"github.com/EpocDotFr/server-patrol/internal/config"
	"github.com/EpocDotFr/server-patrol/internal/database"
	"github.com/EpocDotFr/server-patrol/internal/handler"
	"github.com/EpocDotFr/server-patrol/internal/notifier"
	"github.com/EpocDotFr/server-patrol/internal/scheduler"
	"github.com/EpocDotFr/server-patrol/internal/service"
	"github.com/EpocDotFr/server-patrol/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Server Patrol", "version", version)

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create database indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create database indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	monitoringRepo := database.NewMonitoringRepository(db)
	checkRepo := database.NewCheckRepository(db)

	// Initialize services
	monitoringService := service.NewMonitoringService(monitoringRepo)
	checkService := service.NewCheckService(checkRepo)

	// Initialize alert senders. A disabled channel keeps a nil sender,
	// the notifier skips it.
	var emailSender notifier.EmailSender
	if cfg.EnableEmailAlerts {
		emailSender = notifier.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}
	var smsSender notifier.SMSSender
	if cfg.EnableSMSAlerts {
		smsSender = notifier.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioSenderPhoneNumber)
	}
	alertNotifier := notifier.New(cfg.EnableEmailAlerts, cfg.EnableSMSAlerts, emailSender, smsSender)

	// Initialize the check runner
	runLock := checker.NewRunLock(cfg.LockFilePath)
	prober := checker.NewHTTPProber()
	runner := checker.NewRunner(monitoringRepo, prober, alertNotifier, runLock)
	asyncRunner := service.NewAsyncRunner(runner)

	// Initialize scheduler
	sched := scheduler.NewScheduler(cfg, runner)
	if cfg.SchedulerEnabled {
		if err := sched.Start(); err != nil {
			slog.Error("Failed to start check scheduler", "error", err)
			os.Exit(1)
		}
		slog.Info("Check scheduler started", "schedule", cfg.CheckSchedule)
	} else {
		slog.Info("Check scheduler is disabled")
	}

	// Initialize handlers
	monitoringHandler := handler.NewMonitoringHandler(monitoringService)
	historyHandler := handler.NewHistoryHandler(checkService)
	runHandler := handler.NewRunHandler(runner, asyncRunner)
	statusHandler := handler.NewStatusHandler(monitoringService)
	rssHandler := handler.NewRSSHandler(monitoringService, cfg.PublicURL)
	healthHandler := handler.NewHealthHandler(db, version)

	// Initialize router
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}
	router := handler.NewRouter(
		monitoringHandler,
		historyHandler,
		runHandler,
		statusHandler,
		rssHandler,
		healthHandler,
		corsConfig,
		cfg.AdminUsers,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if cfg.SchedulerEnabled {
		sched.Stop(shutdownCtx)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
