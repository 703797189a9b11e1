package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	catalogUseCase "github.com/amirhossein-jamali/game-portal/internal/domain/usecase/catalog"
	ledgerUseCase "github.com/amirhossein-jamali/game-portal/internal/domain/usecase/ledger"
	sessionUseCase "github.com/amirhossein-jamali/game-portal/internal/domain/usecase/session"
	walletUseCase "github.com/amirhossein-jamali/game-portal/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/scheduler"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := bootstrap.NewLogger(cfg)
	defer func() { _ = appLogger.Flush() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Server terminated", map[string]any{"error": err.Error()})
		_ = appLogger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger coreport.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := bootstrap.NewTimeProvider(cfg)
	if err != nil {
		return err
	}
	limits, err := bootstrap.LedgerLimits(cfg, tp.Location())
	if err != nil {
		return err
	}
	catalogConfig, err := bootstrap.CatalogConfig(cfg)
	if err != nil {
		return err
	}

	// Database
	dbManager := database.NewManager(database.NewConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		return err
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(ctx, cfg.Database.SeedAccounts); err != nil {
		return err
	}
	if err := dbManager.StartMonitoring(ctx); err != nil {
		appLogger.Warn("Connection pool monitoring disabled", map[string]any{"error": err.Error()})
	}

	appMetrics := metrics.New()
	if sqlDB, err := dbManager.SQLDB(); err == nil {
		if err := appMetrics.RegisterDB(sqlDB, cfg.Database.Database); err != nil {
			appLogger.Warn("Database stats collector not registered", map[string]any{"error": err.Error()})
		}
	}

	uow := dbManager.CreateUnitOfWork()

	// Upstream games API
	gamesClient, closeCache := bootstrap.NewGamesClient(ctx, cfg, tp, appLogger, upstream.WithObserver(appMetrics))
	defer func() { _ = closeCache() }()
	if cfg.Upstream.BaseURL == "" {
		appLogger.Warn("upstream.baseUrl is not set; game list and session endpoints will fail", nil)
	}

	// Use cases
	ledgerService := ledgerUseCase.NewService(uow, limits, tp, appLogger)
	catalogService := catalogUseCase.NewService(gamesClient, uow, catalogConfig, tp, appLogger)
	sessionService := sessionUseCase.NewService(gamesClient, uow, cfg.Sessions.StaleAfter, tp, appLogger)
	walletService := walletUseCase.NewService(
		uow,
		walletUseCase.NewAuthenticator(cfg.Wallet.Secret, cfg.Wallet.RequireSignature),
		tp,
		appLogger,
	)

	// Background stale session sweep
	sweeper, err := scheduler.NewSweeper(scheduler.Config{
		Schedule: cfg.Sessions.SweepSchedule,
		Location: tp.Location(),
	}, sessionService, appMetrics, appLogger)
	if err != nil {
		return err
	}
	sweeper.Start()

	// HTTP
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, appMetrics)
	routes.SetupRoutes(router, routes.Handlers{
		Ledger:  handler.NewLedgerHandler(ledgerService, appMetrics, appLogger),
		Catalog: handler.NewCatalogHandler(catalogService, cfg.Catalog.Prune, appMetrics, appLogger),
		Session: handler.NewSessionHandler(sessionService, appLogger),
		Wallet:  handler.NewWalletHandler(walletService, appMetrics, appLogger),
		Health:  handler.NewHealthHandler(dbManager, appLogger),
		Metrics: appMetrics.Handler(),
	}, middleware.NewRateLimiter(cfg.Wallet.RateLimit, cfg.Wallet.RateBurst, tp, appLogger))

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := sweeper.Stop(shutdownCtx); err != nil {
		appLogger.Warn("Session sweeper did not stop in time", map[string]any{"error": err.Error()})
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
	return nil
}
