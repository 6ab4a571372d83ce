package domain

import "github.com/shopspring/decimal"

const (
	// QuantityScale is the decimal scale quantities are rounded to.
	QuantityScale int32 = 4

	// CostScale is the decimal scale unit costs are rounded to.
	CostScale int32 = 6

	// MaxPageSize caps history and balance listing pages.
	MaxPageSize = 1000

	// DefaultPageSize is used when the caller does not specify a limit.
	DefaultPageSize = 50
)

// QuantityTolerance is the rounding tolerance for the transformation
// quantity invariant (outputQuantity == inputQuantity * yield).
var QuantityTolerance = decimal.New(1, -QuantityScale)

// ValidateQuantity rejects non-positive quantities.
func ValidateQuantity(q decimal.Decimal) error {
	if q.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}

	return nil
}

// ValidateUnitCost rejects negative unit costs.
func ValidateUnitCost(c decimal.Decimal) error {
	if c.IsNegative() {
		return ErrInvalidUnitCost
	}

	return nil
}

// ValidateYield rejects yields outside (0, 1].
func ValidateYield(y decimal.Decimal) error {
	if y.LessThanOrEqual(decimal.Zero) || y.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidYield
	}

	return nil
}

// WithinTolerance reports whether two quantities differ by at most
// QuantityTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(QuantityTolerance)
}

// ClampPage normalizes pagination parameters.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
