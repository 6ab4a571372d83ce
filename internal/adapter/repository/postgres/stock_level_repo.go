package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// StockLevelRepository implements usecase.StockLevelRepository.
type StockLevelRepository struct {
	pool *pgxpool.Pool
}

// NewStockLevelRepository creates a new StockLevelRepository.
func NewStockLevelRepository(pool *pgxpool.Pool) *StockLevelRepository {
	return &StockLevelRepository{pool: pool}
}

// EnsureAndLock creates missing stock level rows, then locks every
// requested row with FOR UPDATE. Callers pass keys in ascending order;
// the ORDER BY keeps the lock acquisition order stable regardless.
func (r *StockLevelRepository) EnsureAndLock(ctx context.Context, tx usecase.Transaction, keys []domain.StockKey) ([]*domain.StockLevel, error) {
	pgxTx := tx.(*Tx).PgxTx()

	insert := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, unit_cost, version, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING
	`

	for _, key := range keys {
		if _, err := pgxTx.Exec(ctx, insert, key.ProductID, key.WarehouseID); err != nil {
			return nil, err
		}
	}

	productIDs := make([]int64, 0, len(keys))
	warehouseIDs := make([]int64, 0, len(keys))
	for _, key := range keys {
		productIDs = append(productIDs, key.ProductID)
		warehouseIDs = append(warehouseIDs, key.WarehouseID)
	}

	query := `
		SELECT product_id, warehouse_id, quantity, unit_cost, version, updated_at
		FROM stock_levels
		WHERE (product_id, warehouse_id) IN (
			SELECT unnest($1::bigint[]), unnest($2::bigint[])
		)
		ORDER BY product_id, warehouse_id
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, productIDs, warehouseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStockLevels(rows)
}

// Update writes a stock level inside the given transaction.
func (r *StockLevelRepository) Update(ctx context.Context, tx usecase.Transaction, level *domain.StockLevel) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE stock_levels
		SET quantity = $3, unit_cost = $4, version = $5, updated_at = $6
		WHERE product_id = $1 AND warehouse_id = $2
	`

	_, err := pgxTx.Exec(ctx, query,
		level.ProductID,
		level.WarehouseID,
		decimalToNumeric(level.Quantity),
		decimalToNumeric(level.UnitCost),
		level.Version,
		timeToPgTimestamptz(level.UpdatedAt),
	)

	return err
}

// Get retrieves one stock level without locking.
func (r *StockLevelRepository) Get(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, unit_cost, version, updated_at
		FROM stock_levels
		WHERE product_id = $1 AND warehouse_id = $2
	`

	level, err := scanStockLevel(r.pool.QueryRow(ctx, query, key.ProductID, key.WarehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStockLevelNotFound
		}

		return nil, err
	}

	return level, nil
}

// SumByProduct aggregates quantity and stock value for one product
// across all warehouses in a single query.
func (r *StockLevelRepository) SumByProduct(ctx context.Context, productID int64) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_cost), 0)
		FROM stock_levels
		WHERE product_id = $1
	`

	var quantity, value pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, productID).Scan(&quantity, &value); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(quantity), numericToDecimal(value), nil
}

// ListBalances returns stock levels filtered by product set and
// warehouse, in one read. Empty productIDs means all products, zero
// warehouseID means all warehouses.
func (r *StockLevelRepository) ListBalances(ctx context.Context, productIDs []int64, warehouseID int64) ([]*domain.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, unit_cost, version, updated_at
		FROM stock_levels
		WHERE (cardinality($1::bigint[]) = 0 OR product_id = ANY($1::bigint[]))
		  AND ($2::bigint = 0 OR warehouse_id = $2)
		ORDER BY product_id, warehouse_id
	`

	if productIDs == nil {
		productIDs = []int64{}
	}

	rows, err := r.pool.Query(ctx, query, productIDs, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStockLevels(rows)
}

func scanStockLevel(row pgx.Row) (*domain.StockLevel, error) {
	var (
		level    domain.StockLevel
		quantity pgtype.Numeric
		unitCost pgtype.Numeric
	)

	err := row.Scan(
		&level.ProductID,
		&level.WarehouseID,
		&quantity,
		&unitCost,
		&level.Version,
		&level.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	level.Quantity = numericToDecimal(quantity)
	level.UnitCost = numericToDecimal(unitCost)

	return &level, nil
}

func scanStockLevels(rows pgx.Rows) ([]*domain.StockLevel, error) {
	var levels []*domain.StockLevel
	for rows.Next() {
		level, err := scanStockLevel(rows)
		if err != nil {
			return nil, err
		}

		levels = append(levels, level)
	}

	return levels, rows.Err()
}
