// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/domain/audit"
	"shopledger/internal/domain/auth"
	"shopledger/internal/domain/catalog"
	"shopledger/internal/domain/ledger"
	"shopledger/internal/domain/purchases"
	"shopledger/internal/domain/sales"
	"shopledger/internal/infrastructure/http/v1/handlers"
	"shopledger/internal/infrastructure/http/v1/middleware"
	"shopledger/internal/infrastructure/storage/postgres"
	"shopledger/internal/infrastructure/storage/postgres/auth_repo"
	"shopledger/internal/infrastructure/storage/postgres/catalog_repo"
	"shopledger/internal/infrastructure/storage/postgres/document_repo"
	"shopledger/internal/infrastructure/storage/postgres/ledger_repo"
	"shopledger/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool
	Pool *postgres.Pool

	// TxManager manages transactions for all services
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTService validates and issues tokens
	JWTService *auth.JWTService

	// LedgerConfig holds stock ledger behavior switches
	LedgerConfig ledger.Config

	// Auditor records document change history (optional)
	Auditor audit.Auditor

	// Version is the build version reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Unwrap(), cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Shared services
	alertEngine, err := ledger.NewAlertEngine(ledger.DefaultAlertRules())
	if err != nil {
		// Rules are compile-time constants; failure here is a programming error.
		panic(err)
	}
	stockRepo := ledger_repo.NewStockRepo(cfg.TxManager)
	ledgerService := ledger.NewService(stockRepo, cfg.LedgerConfig, alertEngine)

	authRepo := auth_repo.NewUserRepo(cfg.TxManager)
	authService := auth.NewService(authRepo, cfg.JWTService)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		// Auth endpoints
		authHandler := handlers.NewAuthHandler(baseHandler, authService)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTService))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		// Protected endpoints
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTService))

		// --- MODELS ---
		{
			repo := catalog_repo.NewModelRepo(cfg.TxManager)
			service := catalog.NewService(repo, ledgerService, cfg.TxManager)
			handler := handlers.NewModelHandler(baseHandler, service)
			handler.RegisterRoutes(protected.Group("/models"))
		}

		// --- PURCHASES ---
		{
			repo := document_repo.NewPurchaseRepo(cfg.TxManager)
			service := purchases.NewService(repo, ledgerService, cfg.TxManager, cfg.Auditor)
			handler := handlers.NewPurchaseHandler(baseHandler, service)
			handler.RegisterRoutes(protected.Group("/purchases"))
		}

		// --- SALES ---
		{
			repo := document_repo.NewSaleRepo(cfg.TxManager)
			service := sales.NewService(repo, ledgerService, cfg.TxManager, cfg.Auditor)
			handler := handlers.NewSaleHandler(baseHandler, service)
			handler.RegisterRoutes(protected.Group("/sales"))
		}

		// --- STOCKS (read-only) ---
		{
			handler := handlers.NewStockHandler(baseHandler, ledgerService)
			handler.RegisterRoutes(protected.Group("/stocks"))
		}
	}

	return router
}
