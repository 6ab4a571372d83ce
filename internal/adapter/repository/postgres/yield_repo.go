package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
)

// YieldRepository implements usecase.YieldRepository.
type YieldRepository struct {
	pool *pgxpool.Pool
}

// NewYieldRepository creates a new YieldRepository.
func NewYieldRepository(pool *pgxpool.Pool) *YieldRepository {
	return &YieldRepository{pool: pool}
}

// GetFactor retrieves the configured yield for a product pair.
func (r *YieldRepository) GetFactor(ctx context.Context, inputProductID, outputProductID int64) (decimal.Decimal, error) {
	query := `
		SELECT factor
		FROM yield_profiles
		WHERE input_product_id = $1 AND output_product_id = $2
	`

	var factor pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, inputProductID, outputProductID).Scan(&factor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrYieldProfileMissing
		}

		return decimal.Zero, err
	}

	return numericToDecimal(factor), nil
}

// List returns the whole yield table.
func (r *YieldRepository) List(ctx context.Context) ([]*domain.YieldProfile, error) {
	query := `
		SELECT input_product_id, output_product_id, factor, updated_at
		FROM yield_profiles
		ORDER BY input_product_id, output_product_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.YieldProfile
	for rows.Next() {
		var (
			profile domain.YieldProfile
			factor  pgtype.Numeric
		)

		err := rows.Scan(
			&profile.InputProductID,
			&profile.OutputProductID,
			&factor,
			&profile.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		profile.Factor = numericToDecimal(factor)
		profiles = append(profiles, &profile)
	}

	return profiles, rows.Err()
}

// Upsert writes or replaces the yield for a product pair.
func (r *YieldRepository) Upsert(ctx context.Context, profile *domain.YieldProfile) error {
	query := `
		INSERT INTO yield_profiles (input_product_id, output_product_id, factor, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (input_product_id, output_product_id)
		DO UPDATE SET factor = EXCLUDED.factor, updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query,
		profile.InputProductID,
		profile.OutputProductID,
		decimalToNumeric(profile.Factor),
	)

	return err
}
