package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/jsiquinajay/kardex/internal/adapter/http"
	"github.com/jsiquinajay/kardex/internal/adapter/http/handler"
	apimiddleware "github.com/jsiquinajay/kardex/internal/adapter/http/middleware"
	postgresRepo "github.com/jsiquinajay/kardex/internal/adapter/repository/postgres"
	redisRepo "github.com/jsiquinajay/kardex/internal/adapter/repository/redis"
	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/infrastructure/config"
	"github.com/jsiquinajay/kardex/internal/infrastructure/logger"
	"github.com/jsiquinajay/kardex/internal/infrastructure/postgres"
	"github.com/jsiquinajay/kardex/internal/infrastructure/redis"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// parseDefaultYield parses and validates the configured fallback yield.
func parseDefaultYield(raw string) (decimal.Decimal, error) {
	factor, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}

	if err := domain.ValidateYield(factor); err != nil {
		return decimal.Zero, err
	}

	return factor, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	defaultYield, err := parseDefaultYield(cfg.DefaultYield)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.DefaultYield).Msg("invalid DEFAULT_YIELD")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	productRepo := postgresRepo.NewProductRepository(pool)
	warehouseRepo := postgresRepo.NewWarehouseRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	stockRepo := postgresRepo.NewStockLevelRepository(pool)
	transformationRepo := postgresRepo.NewTransformationRepository(pool)
	yieldRepo := postgresRepo.NewYieldRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	yieldCache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	movementUC := usecase.NewMovementUseCase(txManager, productRepo, warehouseRepo, movementRepo, stockRepo, idGen, appLogger)
	transformationUC := usecase.NewTransformationUseCase(
		txManager,
		productRepo,
		warehouseRepo,
		movementRepo,
		stockRepo,
		transformationRepo,
		yieldRepo,
		idGen,
		usecase.TransformationConfig{
			YieldCache:    yieldCache,
			YieldCacheTTL: cfg.YieldCacheTTL,
			DefaultYield:  defaultYield,
		},
		appLogger,
	)
	balanceUC := usecase.NewBalanceUseCase(productRepo, warehouseRepo, stockRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(movementRepo, stockRepo)

	// Initialize handlers
	movementHandler := handler.NewMovementHandler(movementUC)
	transformationHandler := handler.NewTransformationHandler(transformationUC, movementUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	referenceHandler := handler.NewReferenceHandler(balanceUC, transformationUC)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *apimiddleware.RateLimiter
	if cfg.RateLimitPerSecond > 0 {
		rateLimiter = apimiddleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		MovementHandler:       movementHandler,
		TransformationHandler: transformationHandler,
		BalanceHandler:        balanceHandler,
		ReferenceHandler:      referenceHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Logger:                appLogger,
		RateLimiter:           rateLimiter,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
