package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donation-ledger/config"
	anchorClient "donation-ledger/internal/adapter/anchor"
	httpHandler "donation-ledger/internal/adapter/http/handler"
	pgStorage "donation-ledger/internal/adapter/storage/postgres"
	redisStorage "donation-ledger/internal/adapter/storage/redis"
	"donation-ledger/internal/core/ports"
	"donation-ledger/internal/service"
	"donation-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Donation Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	donationRepo := pgStorage.NewDonationRepo(pool)
	campaignRepo := pgStorage.NewCampaignRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	attemptRepo := pgStorage.NewAnchorAttemptRepo(pool)
	operatorRepo := pgStorage.NewOperatorRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	recordCache := redisStorage.NewRecordCache(rdb)
	dedupGuard := redisStorage.NewDedupGuard(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	anchor := anchorClient.NewHTTPClient(cfg.Anchor.URL, cfg.Anchor.Secret, sigSvc, cfg.Anchor.Timeout, log)
	recorderSvc := service.NewRecorderService(
		donationRepo,
		attemptRepo,
		eventRepo,
		recordCache,
		anchor,
		encSvc,
		cfg.Anchor.MaxAttempts,
		cfg.Anchor.BackoffBase,
		cfg.Anchor.Timeout,
		log,
	)
	reconcileSvc := service.NewReconcileService(
		donationRepo,
		campaignRepo,
		eventRepo,
		dedupGuard,
		recordCache,
		encSvc,
		recorderSvc,
		transactor,
		log,
	)
	reportingSvc := service.NewReportingService(donationRepo, encSvc)
	authSvc := service.NewAuthService(operatorRepo, hashSvc, tokenSvc, log)

	// Bootstrap the dashboard operator account
	if err := authSvc.EnsureBootstrapOperator(ctx, cfg.Operator.Username, cfg.Operator.Password); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap operator account")
	}

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ReconcileSvc:            reconcileSvc,
		RecorderSvc:             recorderSvc,
		ReportingSvc:            reportingSvc,
		AuthSvc:                 authSvc,
		CampaignRepo:            campaignRepo,
		TokenSvc:                tokenSvc,
		SigSvc:                  sigSvc,
		CallbackSecret:          cfg.Provider.CallbackSecret,
		AckOnPersistenceFailure: cfg.Reconcile.AckOnPersistenceFailure,
		RateLimitStore:          rateLimitStore,
		HealthCheckers:          []ports.HealthChecker{pgHealth, redisHealth},
		Logger:                  log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
