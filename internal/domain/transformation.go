package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transformation is the audit record linking the OUT movement of the
// input product and the IN movement of the output product that share
// its id. Invariants: OutputQuantity = InputQuantity * Yield within
// QuantityTolerance, and Waste = InputQuantity - OutputQuantity >= 0.
type Transformation struct {
	ID             string
	InputProductID int64
	InputQuantity  decimal.Decimal
	OutputProduct  int64
	OutputQuantity decimal.Decimal
	Yield          decimal.Decimal
	Waste          decimal.Decimal
	OverheadCost   decimal.Decimal
	OutputUnitCost decimal.Decimal
	WarehouseID    int64
	ActorID        string
	Note           string
	CreatedAt      time.Time
}

// Validate checks the request-level invariants before any write.
func (t *Transformation) Validate() error {
	if t.InputProductID == t.OutputProduct {
		return ErrSameProduct
	}

	if t.InputQuantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}

	if err := ValidateYield(t.Yield); err != nil {
		return err
	}

	if t.OverheadCost.IsNegative() {
		return ErrInvalidOverhead
	}

	if t.ActorID == "" {
		return ErrMissingActor
	}

	return nil
}

// SamePayload reports whether a re-submitted transformation carries the
// same logical request. Resubmitting a committed id with an identical
// payload is a no-op; a differing payload is a conflict.
func (t *Transformation) SamePayload(other *Transformation) bool {
	return t.InputProductID == other.InputProductID &&
		t.OutputProduct == other.OutputProduct &&
		t.WarehouseID == other.WarehouseID &&
		t.InputQuantity.Equal(other.InputQuantity) &&
		t.Yield.Equal(other.Yield) &&
		t.OverheadCost.Equal(other.OverheadCost)
}

// TransformationPlan is the derived quantity split for a transformation.
type TransformationPlan struct {
	OutputQuantity decimal.Decimal
	Waste          decimal.Decimal
}

// PlanTransformation computes output and waste quantities from the input
// quantity and yield factor.
func PlanTransformation(inputQty, yield decimal.Decimal) TransformationPlan {
	out := inputQty.Mul(yield).Round(QuantityScale)

	return TransformationPlan{
		OutputQuantity: out,
		Waste:          inputQty.Sub(out),
	}
}

// YieldProfile is the configured standard yield for a product pair.
// These live in storage, not in code: the pairs are plant-specific
// process data and change with equipment and crop.
type YieldProfile struct {
	InputProductID  int64
	OutputProductID int64
	Factor          decimal.Decimal
	UpdatedAt       time.Time
}
