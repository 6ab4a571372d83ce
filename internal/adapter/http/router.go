package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jsiquinajay/kardex/internal/adapter/http/handler"
	"github.com/jsiquinajay/kardex/internal/adapter/http/middleware"
	"github.com/jsiquinajay/kardex/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MovementHandler       *handler.MovementHandler
	TransformationHandler *handler.TransformationHandler
	BalanceHandler        *handler.BalanceHandler
	ReferenceHandler      *handler.ReferenceHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	Logger                zerolog.Logger
	RateLimiter           *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Movements
		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Create)
			r.Get("/", cfg.MovementHandler.List)
		})

		// Transformations
		r.Route("/transformations", func(r chi.Router) {
			r.Post("/", cfg.TransformationHandler.Create)
			r.Get("/", cfg.TransformationHandler.List)
			r.Get("/{id}", cfg.TransformationHandler.Get)
			r.Get("/{id}/movements", cfg.TransformationHandler.ListMovements)
		})

		// Balances
		r.Route("/balances", func(r chi.Router) {
			r.Get("/", cfg.BalanceHandler.List)
			r.Get("/{productID}", cfg.BalanceHandler.Get)
		})

		// Reference data
		r.Get("/products", cfg.ReferenceHandler.ListProducts)
		r.Get("/warehouses", cfg.ReferenceHandler.ListWarehouses)
		r.Route("/yields", func(r chi.Router) {
			r.Get("/", cfg.ReferenceHandler.ListYields)
			r.Put("/", cfg.ReferenceHandler.UpsertYield)
		})

		// Reconciliation
		r.Post("/reconciliation", cfg.ReconciliationHandler.Run)
	})

	return r
}
