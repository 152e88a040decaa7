package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/aurora/internal/ai"
	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/handler"
	"github.com/Dan9191/aurora/internal/integrations/fx"
	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/Dan9191/aurora/internal/middleware"
	"github.com/Dan9191/aurora/internal/repository"
	"github.com/Dan9191/aurora/internal/scheduler"
	"github.com/Dan9191/aurora/internal/service"
	"github.com/Dan9191/aurora/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database
	repo, err := repository.Open(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Ping(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize layers
	fxClient := fx.NewClient(cfg, logger)
	if !fxClient.Enabled() {
		logger.Warn("No FX_URL configured - foreign balances are counted at face value")
	}
	var mailer service.ReminderSender
	if cfg.SMTPEnabled() {
		mailer = email.NewSender(cfg, logger)
	} else {
		logger.Warn("SMTP is not configured - billing reminders will not be sent")
	}

	svc := service.NewService(repo, ledger.New(repo, logger), fxClient, mailer, logger, cfg)
	assistant := ai.NewAssistant(svc, cfg, logger, ai.NewProviders(cfg)...)
	h := handler.NewHandler(svc, assistant, fxClient, logger)

	// Setup router
	r := mux.NewRouter()
	h.Routes(r, middleware.AuthMiddleware(cfg))

	root := middleware.Recovery(logger)(
		middleware.RequestID(
			middleware.Logger(logger)(
				middleware.CORS(cfg.CORSOrigins)(r),
			),
		),
	)

	// Start billing scheduler
	sched, err := scheduler.New(cfg.BillingCron, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        addr,
			"driver":      cfg.DBDriver,
			"ai_provider": cfg.AIProvider,
		}).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	sched.Stop(shutdownCtx)

	logger.Info("Server exited")
}
