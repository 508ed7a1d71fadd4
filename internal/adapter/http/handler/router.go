package handler

import (
	"donation-ledger/internal/adapter/http/middleware"
	redisStore "donation-ledger/internal/adapter/storage/redis"
	"donation-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ReconcileSvc   ports.ReconcileService
	RecorderSvc    ports.RecorderService
	ReportingSvc   ports.ReportingService
	AuthSvc        ports.AuthService
	CampaignRepo   ports.CampaignRepository
	TokenSvc       ports.TokenService
	SigSvc         ports.SignatureService
	CallbackSecret string // empty = provider signature verification disabled
	// AckOnPersistenceFailure acknowledges provider callbacks even when the
	// ledger store rejected the write.
	AckOnPersistenceFailure bool
	RateLimitStore          *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers          []ports.HealthChecker
	Logger                  zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Provider callback (HMAC-verified when a secret is configured) ---
	callbackHandler := NewCallbackHandler(deps.ReconcileSvc, deps.AckOnPersistenceFailure, deps.Logger)
	providerSig := middleware.ProviderSignature(deps.CallbackSecret, deps.SigSvc, deps.Logger)
	payments := v1.Group("/payments")
	{
		payments.POST("/callback", rl("callback"), providerSig, callbackHandler.Confirm)
	}

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes (operator dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	donationHandler := NewDonationHandler(deps.ReconcileSvc, deps.ReportingSvc)
	campaignHandler := NewCampaignHandler(deps.CampaignRepo)
	reportHandler := NewReportHandler(deps.ReportingSvc, deps.RecorderSvc)

	donations := v1.Group("/donations", jwtAuth)
	{
		donations.POST("", rl("dashboard"), donationHandler.Create)
		donations.GET("", rl("dashboard"), donationHandler.List)
		donations.GET("/:id", rl("dashboard"), donationHandler.Get)
		donations.PATCH("/:id/status", rl("dashboard"), donationHandler.UpdateStatus)
	}

	campaigns := v1.Group("/campaigns", jwtAuth)
	{
		campaigns.POST("", rl("dashboard"), campaignHandler.Create)
		campaigns.GET("", rl("dashboard"), campaignHandler.List)
		campaigns.GET("/:id", rl("dashboard"), campaignHandler.Get)
	}

	reconciliation := v1.Group("/reconciliation", jwtAuth)
	{
		reconciliation.GET("/report", rl("dashboard"), reportHandler.ReconciliationReport)
		reconciliation.POST("/retry/:id", rl("dashboard"), reportHandler.RetryRecord)
	}

	dashboard := v1.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("/stats", rl("dashboard"), reportHandler.GetStats)
	}

	return r
}
