package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
)

// ProductRepository defines data access for product reference data.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

// WarehouseRepository defines data access for warehouse reference data.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Warehouse, error)
	Create(ctx context.Context, warehouse *domain.Warehouse) error
}

// MovementRepository defines data access for the append-only movement log.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	// ListByKey returns movements for one (product, warehouse) pair
	// ordered by occurrence time ascending. Offset paging keeps the
	// sequence finite and restartable.
	ListByKey(ctx context.Context, key domain.StockKey, limit, offset int) ([]*domain.Movement, error)
	// ListAll returns movements across all keys ordered by occurrence
	// time ascending, for replay.
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Movement, error)
	ListByTransformation(ctx context.Context, transformationID string) ([]*domain.Movement, error)
}

// StockLevelRepository defines data access for the running cost rows.
type StockLevelRepository interface {
	// EnsureAndLock upserts zero rows for any missing keys and locks all
	// of them FOR UPDATE, returning the levels ordered by key. Callers
	// must pass keys pre-sorted ascending so concurrent writers acquire
	// row locks in the same global order.
	EnsureAndLock(ctx context.Context, tx Transaction, keys []domain.StockKey) ([]*domain.StockLevel, error)
	Update(ctx context.Context, tx Transaction, level *domain.StockLevel) error
	Get(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error)
	// SumByProduct aggregates quantity and valuation across all
	// warehouses for a product in a single query.
	SumByProduct(ctx context.Context, productID int64) (quantity, value decimal.Decimal, err error)
	// ListBalances returns stock levels in a single bulk read. An empty
	// productIDs slice means all products; warehouseID of zero means all
	// warehouses.
	ListBalances(ctx context.Context, productIDs []int64, warehouseID int64) ([]*domain.StockLevel, error)
}

// TransformationRepository defines data access for transformation audit records.
type TransformationRepository interface {
	// Create returns domain.ErrTransformationExists if the id has
	// already been committed.
	Create(ctx context.Context, tx Transaction, transformation *domain.Transformation) error
	GetByID(ctx context.Context, id string) (*domain.Transformation, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transformation, error)
}

// YieldRepository defines data access for configured standard yields.
type YieldRepository interface {
	// GetFactor returns domain.ErrYieldProfileMissing when no profile is
	// configured for the product pair.
	GetFactor(ctx context.Context, inputProductID, outputProductID int64) (decimal.Decimal, error)
	List(ctx context.Context) ([]*domain.YieldProfile, error)
	Upsert(ctx context.Context, profile *domain.YieldProfile) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for reference lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyInFlight is the sentinel an IdempotencyStore holds for a
// reserved key whose final response has not been stored yet.
const IdempotencyInFlight = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not. A nil
	// response reserves the key with IdempotencyInFlight.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
