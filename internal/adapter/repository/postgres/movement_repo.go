package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

const movementColumns = `
	id, product_id, warehouse_id, quantity, unit_cost, direction,
	occurred_at, actor_id, transformation_id, yield, waste, note, stock_version
`

// MovementRepository implements usecase.MovementRepository. Movements
// are append-only; there is no update or delete path.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create appends a movement inside the given transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO movements (
			id, product_id, warehouse_id, quantity, unit_cost, direction,
			occurred_at, actor_id, transformation_id, yield, waste, note, stock_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := pgxTx.Exec(ctx, query,
		movement.ID,
		movement.ProductID,
		movement.WarehouseID,
		decimalToNumeric(movement.Quantity),
		decimalToNumeric(movement.UnitCost),
		string(movement.Direction),
		timeToPgTimestamptz(movement.OccurredAt),
		movement.ActorID,
		nullableText(movement.TransformationID),
		nullableNumeric(movement.Yield),
		nullableNumeric(movement.Waste),
		movement.Note,
		movement.StockVersion,
	)

	return err
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`

	movement, err := scanMovement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return movement, nil
}

// ListByKey lists movements for one (product, warehouse) pair ordered by
// occurrence time, oldest first.
func (r *MovementRepository) ListByKey(ctx context.Context, key domain.StockKey, limit, offset int) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY occurred_at, id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, key.ProductID, key.WarehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ListAll pages the whole movement log in insertion order.
func (r *MovementRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		ORDER BY occurred_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// ListByTransformation lists the movement pair written by one
// transformation, the OUT leg first.
func (r *MovementRepository) ListByTransformation(ctx context.Context, transformationID string) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE transformation_id = $1
		ORDER BY direction DESC, id
	`

	rows, err := r.pool.Query(ctx, query, transformationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		movement         domain.Movement
		quantity         pgtype.Numeric
		unitCost         pgtype.Numeric
		direction        string
		transformationID pgtype.Text
		yield            pgtype.Numeric
		waste            pgtype.Numeric
	)

	err := row.Scan(
		&movement.ID,
		&movement.ProductID,
		&movement.WarehouseID,
		&quantity,
		&unitCost,
		&direction,
		&movement.OccurredAt,
		&movement.ActorID,
		&transformationID,
		&yield,
		&waste,
		&movement.Note,
		&movement.StockVersion,
	)
	if err != nil {
		return nil, err
	}

	movement.Quantity = numericToDecimal(quantity)
	movement.UnitCost = numericToDecimal(unitCost)
	movement.Direction = domain.Direction(direction)
	movement.TransformationID = textToNullable(transformationID)
	movement.Yield = numericToNullable(yield)
	movement.Waste = numericToNullable(waste)

	return &movement, nil
}

func scanMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, movement)
	}

	return movements, rows.Err()
}
