package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/jsiquinajay/kardex/internal/adapter/http"
	"github.com/jsiquinajay/kardex/internal/adapter/http/handler"
	postgresRepo "github.com/jsiquinajay/kardex/internal/adapter/repository/postgres"
	redisRepo "github.com/jsiquinajay/kardex/internal/adapter/repository/redis"
	infraredis "github.com/jsiquinajay/kardex/internal/infrastructure/redis"
	"github.com/jsiquinajay/kardex/internal/usecase"
	"github.com/jsiquinajay/kardex/tests/testutil"
)

// Seeded reference data from the schema migrations.
const (
	productCereza   int64 = 45
	productPergamin int64 = 67
	productOro      int64 = 89
	warehouseMain   int64 = 1
)

type testEnv struct {
	db     *testutil.TestDB
	router http.Handler
}

// newTestEnv wires the full HTTP stack against a real database. Redis
// is served by miniredis so the idempotency and yield cache paths are
// exercised without an external service.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.NewTestDB(t)
	t.Cleanup(db.Cleanup)

	ctx := context.Background()
	db.TruncateLedger(ctx)

	mr := miniredis.RunT(t)
	redisClient, err := infraredis.NewClient(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	txManager := postgresRepo.NewTxManager(db.Pool)
	productRepo := postgresRepo.NewProductRepository(db.Pool)
	warehouseRepo := postgresRepo.NewWarehouseRepository(db.Pool)
	movementRepo := postgresRepo.NewMovementRepository(db.Pool)
	stockRepo := postgresRepo.NewStockLevelRepository(db.Pool)
	transformationRepo := postgresRepo.NewTransformationRepository(db.Pool)
	yieldRepo := postgresRepo.NewYieldRepository(db.Pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	yieldCache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	logger := zerolog.Nop()

	movementUC := usecase.NewMovementUseCase(txManager, productRepo, warehouseRepo, movementRepo, stockRepo, idGen, logger)
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
			YieldCacheTTL: time.Minute,
			DefaultYield:  decimal.NewFromInt(1),
		},
		logger,
	)
	balanceUC := usecase.NewBalanceUseCase(productRepo, warehouseRepo, stockRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(movementRepo, stockRepo)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		MovementHandler:       handler.NewMovementHandler(movementUC),
		TransformationHandler: handler.NewTransformationHandler(transformationUC, movementUC),
		BalanceHandler:        handler.NewBalanceHandler(balanceUC),
		ReferenceHandler:      handler.NewReferenceHandler(balanceUC, transformationUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         &handler.HealthHandler{},
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        time.Hour,
		Logger:                logger,
	})

	return &testEnv{db: db, router: router}
}

// doJSON issues a request against the router and returns the recorder.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// recordStock posts an IN movement and fails the test on any error.
func (e *testEnv) recordStock(t *testing.T, productID, warehouseID int64, quantity, unitCost string) {
	t.Helper()

	rec := e.doJSON(t, http.MethodPost, "/api/v1/movements/", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     quantity,
		"direction":    "IN",
		"unit_cost":    unitCost,
		"actor_id":     "integration-test",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to seed stock: status %d body %s", rec.Code, rec.Body.String())
	}
}
