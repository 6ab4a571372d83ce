package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// TransformationRepository implements usecase.TransformationRepository.
type TransformationRepository struct {
	pool *pgxpool.Pool
}

// NewTransformationRepository creates a new TransformationRepository.
func NewTransformationRepository(pool *pgxpool.Pool) *TransformationRepository {
	return &TransformationRepository{pool: pool}
}

// Create inserts the audit record inside the given transaction. A
// duplicate id maps to domain.ErrTransformationExists so the caller can
// resolve the race against the committed row.
func (r *TransformationRepository) Create(ctx context.Context, tx usecase.Transaction, transformation *domain.Transformation) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transformations (
			id, input_product_id, input_quantity, output_product_id, output_quantity,
			yield, waste, overhead_cost, output_unit_cost, warehouse_id, actor_id, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := pgxTx.Exec(ctx, query,
		transformation.ID,
		transformation.InputProductID,
		decimalToNumeric(transformation.InputQuantity),
		transformation.OutputProduct,
		decimalToNumeric(transformation.OutputQuantity),
		decimalToNumeric(transformation.Yield),
		decimalToNumeric(transformation.Waste),
		decimalToNumeric(transformation.OverheadCost),
		decimalToNumeric(transformation.OutputUnitCost),
		transformation.WarehouseID,
		transformation.ActorID,
		transformation.Note,
		timeToPgTimestamptz(transformation.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrTransformationExists
		}

		return err
	}

	return nil
}

// GetByID retrieves a transformation by ID.
func (r *TransformationRepository) GetByID(ctx context.Context, id string) (*domain.Transformation, error) {
	query := `
		SELECT id, input_product_id, input_quantity, output_product_id, output_quantity,
		       yield, waste, overhead_cost, output_unit_cost, warehouse_id, actor_id, note, created_at
		FROM transformations
		WHERE id = $1
	`

	transformation, err := scanTransformation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransformationNotFound
		}

		return nil, err
	}

	return transformation, nil
}

// List lists transformations, newest first.
func (r *TransformationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transformation, error) {
	query := `
		SELECT id, input_product_id, input_quantity, output_product_id, output_quantity,
		       yield, waste, overhead_cost, output_unit_cost, warehouse_id, actor_id, note, created_at
		FROM transformations
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transformations []*domain.Transformation
	for rows.Next() {
		transformation, err := scanTransformation(rows)
		if err != nil {
			return nil, err
		}

		transformations = append(transformations, transformation)
	}

	return transformations, rows.Err()
}

func scanTransformation(row pgx.Row) (*domain.Transformation, error) {
	var (
		transformation domain.Transformation
		inputQuantity  pgtype.Numeric
		outputQuantity pgtype.Numeric
		yield          pgtype.Numeric
		waste          pgtype.Numeric
		overheadCost   pgtype.Numeric
		outputUnitCost pgtype.Numeric
	)

	err := row.Scan(
		&transformation.ID,
		&transformation.InputProductID,
		&inputQuantity,
		&transformation.OutputProduct,
		&outputQuantity,
		&yield,
		&waste,
		&overheadCost,
		&outputUnitCost,
		&transformation.WarehouseID,
		&transformation.ActorID,
		&transformation.Note,
		&transformation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	transformation.InputQuantity = numericToDecimal(inputQuantity)
	transformation.OutputQuantity = numericToDecimal(outputQuantity)
	transformation.Yield = numericToDecimal(yield)
	transformation.Waste = numericToDecimal(waste)
	transformation.OverheadCost = numericToDecimal(overheadCost)
	transformation.OutputUnitCost = numericToDecimal(outputUnitCost)

	return &transformation, nil
}
