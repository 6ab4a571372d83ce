package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsiquinajay/kardex/internal/domain"
)

// WarehouseRepository implements usecase.WarehouseRepository.
type WarehouseRepository struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository creates a new WarehouseRepository.
func NewWarehouseRepository(pool *pgxpool.Pool) *WarehouseRepository {
	return &WarehouseRepository{pool: pool}
}

// GetByID retrieves a warehouse by ID.
func (r *WarehouseRepository) GetByID(ctx context.Context, id int64) (*domain.Warehouse, error) {
	query := `
		SELECT id, name, active, created_at, updated_at
		FROM warehouses
		WHERE id = $1
	`

	var warehouse domain.Warehouse
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&warehouse.ID,
		&warehouse.Name,
		&warehouse.Active,
		&warehouse.CreatedAt,
		&warehouse.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWarehouseNotFound
		}

		return nil, err
	}

	return &warehouse, nil
}

// List lists warehouses with pagination.
func (r *WarehouseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Warehouse, error) {
	query := `
		SELECT id, name, active, created_at, updated_at
		FROM warehouses
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []*domain.Warehouse
	for rows.Next() {
		var warehouse domain.Warehouse
		err := rows.Scan(
			&warehouse.ID,
			&warehouse.Name,
			&warehouse.Active,
			&warehouse.CreatedAt,
			&warehouse.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		warehouses = append(warehouses, &warehouse)
	}

	return warehouses, rows.Err()
}

// Create inserts a new warehouse.
func (r *WarehouseRepository) Create(ctx context.Context, warehouse *domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		warehouse.Name,
		warehouse.Active,
		timeToPgTimestamptz(warehouse.CreatedAt),
		timeToPgTimestamptz(warehouse.UpdatedAt),
	).Scan(&warehouse.ID)
}
