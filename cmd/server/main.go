package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "toolshare-booking-backend/internal/api/http"
	"toolshare-booking-backend/internal/config"
	"toolshare-booking-backend/internal/events"
	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/payment"
	"toolshare-booking-backend/internal/pricing"
	"toolshare-booking-backend/internal/repository/postgres"
	"toolshare-booking-backend/internal/security"
	"toolshare-booking-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ToolShare Booking Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Payment Gateway and 3DS Challenge Monitor
	gateway := payment.NewClient(
		cfg.Payment.BaseURL,
		cfg.Payment.APIKey,
		time.Duration(cfg.Payment.RequestTimeoutSeconds)*time.Second,
	)
	monitor := payment.NewChallengeMonitor(
		gateway,
		time.Duration(cfg.Payment.ChallengePollIntervalMS)*time.Millisecond,
		time.Duration(cfg.Payment.ChallengeTimeoutSeconds)*time.Second,
	)

	// Initialize Pricing Quoter (remote disabled when no base URL is set)
	var remoteQuoter service.RemoteQuoter
	if cfg.Pricing.BaseURL != "" {
		remoteQuoter = pricing.NewClient(
			cfg.Pricing.BaseURL,
			time.Duration(cfg.Pricing.RequestTimeoutSeconds)*time.Second,
		)
		logger.Info("Remote pricing enabled", "base_url", cfg.Pricing.BaseURL)
	} else {
		logger.Info("Remote pricing disabled, using local fallback only")
	}

	// Initialize Event Bus
	bus := events.NewBus()

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	pricingSvc := service.NewPricingService(remoteQuoter, cfg.Checkout.ServiceFeePercent)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.ToolRepository, bus)
	draftSvc := service.NewDraftService(
		store.DraftRepository,
		store.BookingRepository,
		store.ToolRepository,
		pricingSvc,
		time.Duration(cfg.Checkout.DraftTTLHours)*time.Hour,
		cfg.Checkout.MaxRentalDays,
	)
	checkoutSvc := service.NewCheckoutService(draftSvc, bookingSvc, gateway, monitor, cfg.Payment.Currency)
	noteSvc := service.NewNotificationService(store.NotificationRepository, store.UserRepository, emailSvc)

	// Notifications and emails react to completed checkouts
	bus.SubscribeBookingCreated(noteSvc.HandleBookingCreated)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:          authSvc,
		Bookings:      bookingSvc,
		Pricing:       pricingSvc,
		Drafts:        draftSvc,
		Checkout:      checkoutSvc,
		Notifications: noteSvc,
		Tokens:        tokenManager,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Submit can block on a 3DS challenge for up to the challenge
		// timeout, so the write timeout must exceed it.
		WriteTimeout: time.Duration(cfg.Payment.ChallengeTimeoutSeconds+30) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
