package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// RecordMovementRequest represents a request to record a movement.
type RecordMovementRequest struct {
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Direction   string          `json:"direction"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ActorID     string          `json:"actor_id"`
	Note        string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordMovementRequest) ToUseCaseInput() usecase.RecordMovementInput {
	return usecase.RecordMovementInput{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Quantity:    r.Quantity,
		Direction:   domain.Direction(r.Direction),
		UnitCost:    r.UnitCost,
		ActorID:     r.ActorID,
		Note:        r.Note,
	}
}

// TransformRequest represents a request to transform stock of one
// product into another.
type TransformRequest struct {
	InputProductID   int64            `json:"input_product_id"`
	InputQuantity    decimal.Decimal  `json:"input_quantity"`
	OutputProductID  int64            `json:"output_product_id"`
	WarehouseID      int64            `json:"warehouse_id"`
	ActorID          string           `json:"actor_id"`
	Yield            *decimal.Decimal `json:"yield,omitempty"`
	OverheadCost     *decimal.Decimal `json:"overhead_cost,omitempty"`
	TransformationID string           `json:"transformation_id,omitempty"`
	Note             string           `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransformRequest) ToUseCaseInput() usecase.ProcessTransformationInput {
	return usecase.ProcessTransformationInput{
		InputProductID:   r.InputProductID,
		InputQuantity:    r.InputQuantity,
		OutputProductID:  r.OutputProductID,
		WarehouseID:      r.WarehouseID,
		ActorID:          r.ActorID,
		Yield:            r.Yield,
		OverheadCost:     r.OverheadCost,
		TransformationID: r.TransformationID,
		Note:             r.Note,
	}
}

// UpsertYieldRequest represents a request to set the yield for a
// product pair.
type UpsertYieldRequest struct {
	InputProductID  int64           `json:"input_product_id"`
	OutputProductID int64           `json:"output_product_id"`
	Factor          decimal.Decimal `json:"factor"`
}

// ToDomain converts to a domain yield profile.
func (r *UpsertYieldRequest) ToDomain() *domain.YieldProfile {
	return &domain.YieldProfile{
		InputProductID:  r.InputProductID,
		OutputProductID: r.OutputProductID,
		Factor:          r.Factor,
	}
}
