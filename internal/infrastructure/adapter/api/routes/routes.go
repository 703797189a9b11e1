package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the API handlers; Health and Metrics are optional
type Handlers struct {
	Ledger  *handler.LedgerHandler
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler
	Wallet  *handler.WalletHandler
	Health  *handler.HealthHandler
	Metrics http.Handler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, walletLimiter *middleware.RateLimiter) {
	if h.Health != nil {
		router.GET("/health", h.Health.Health)
	}
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api")

	accounts := api.Group("/accounts")
	{
		accounts.GET("/:accountId/balance", h.Ledger.GetBalance)
		accounts.GET("/:accountId/ledger", h.Ledger.ListLedger)
		accounts.POST("/:accountId/transfers", h.Ledger.Transfer)
	}

	api.GET("/games", h.Catalog.Games)
	api.POST("/games/:gameId/open", h.Session.Open)
	api.POST("/sessions/:sessionId/close", h.Session.Close)
	api.GET("/jackpots", h.Session.Jackpots)

	catalog := api.Group("/catalog")
	{
		catalog.GET("", h.Catalog.List)
		catalog.POST("/sync", h.Catalog.Sync)
	}

	wallet := api.Group("/wallet")
	wallet.Use(middleware.ReplyOnPanic(h.Wallet.InternalError))
	if walletLimiter != nil {
		wallet.Use(walletLimiter.Middleware(h.Wallet.RateLimited))
	}
	wallet.POST("/callback", h.Wallet.Callback)
}

// SetupMiddlewares configures global middlewares for the API; observer may be nil
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, observer middleware.HTTPObserver) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	if observer != nil {
		router.Use(middleware.Metrics(observer))
	}
	router.Use(middleware.ActorFromHeaders())
}
