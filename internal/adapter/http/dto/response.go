package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// ErrorResponse is the failure envelope. ErrorKind is a stable machine
// readable category; Message is human readable detail.
type ErrorResponse struct {
	Result    string `json:"result"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID               string           `json:"id"`
	ProductID        int64            `json:"product_id"`
	WarehouseID      int64            `json:"warehouse_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitCost         decimal.Decimal  `json:"unit_cost"`
	Direction        string           `json:"direction"`
	OccurredAt       time.Time        `json:"occurred_at"`
	ActorID          string           `json:"actor_id"`
	TransformationID *string          `json:"transformation_id,omitempty"`
	Yield            *decimal.Decimal `json:"yield,omitempty"`
	Waste            *decimal.Decimal `json:"waste,omitempty"`
	Note             string           `json:"note,omitempty"`
	StockVersion     int64            `json:"stock_version"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		WarehouseID:      m.WarehouseID,
		Quantity:         m.Quantity,
		UnitCost:         m.UnitCost,
		Direction:        string(m.Direction),
		OccurredAt:       m.OccurredAt,
		ActorID:          m.ActorID,
		TransformationID: m.TransformationID,
		Yield:            m.Yield,
		Waste:            m.Waste,
		Note:             m.Note,
		StockVersion:     m.StockVersion,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// TransformResultResponse is the success envelope for a transformation
// submission.
type TransformResultResponse struct {
	Result           string          `json:"result"`
	TransformationID string          `json:"transformation_id"`
	OutputQuantity   decimal.Decimal `json:"output_quantity"`
	Waste            decimal.Decimal `json:"waste"`
	OutputUnitCost   decimal.Decimal `json:"output_unit_cost"`
	Replayed         bool            `json:"replayed,omitempty"`
}

// TransformResultFromUseCase converts a process result to a response.
func TransformResultFromUseCase(r *usecase.ProcessResult) *TransformResultResponse {
	return &TransformResultResponse{
		Result:           "success",
		TransformationID: r.Transformation.ID,
		OutputQuantity:   r.Transformation.OutputQuantity,
		Waste:            r.Transformation.Waste,
		OutputUnitCost:   r.Transformation.OutputUnitCost,
		Replayed:         r.Replayed,
	}
}

// TransformationResponse represents a transformation audit record.
type TransformationResponse struct {
	ID              string          `json:"id"`
	InputProductID  int64           `json:"input_product_id"`
	InputQuantity   decimal.Decimal `json:"input_quantity"`
	OutputProductID int64           `json:"output_product_id"`
	OutputQuantity  decimal.Decimal `json:"output_quantity"`
	Yield           decimal.Decimal `json:"yield"`
	Waste           decimal.Decimal `json:"waste"`
	OverheadCost    decimal.Decimal `json:"overhead_cost"`
	OutputUnitCost  decimal.Decimal `json:"output_unit_cost"`
	WarehouseID     int64           `json:"warehouse_id"`
	ActorID         string          `json:"actor_id"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransformationFromDomain converts a domain transformation to a response.
func TransformationFromDomain(t *domain.Transformation) *TransformationResponse {
	return &TransformationResponse{
		ID:              t.ID,
		InputProductID:  t.InputProductID,
		InputQuantity:   t.InputQuantity,
		OutputProductID: t.OutputProduct,
		OutputQuantity:  t.OutputQuantity,
		Yield:           t.Yield,
		Waste:           t.Waste,
		OverheadCost:    t.OverheadCost,
		OutputUnitCost:  t.OutputUnitCost,
		WarehouseID:     t.WarehouseID,
		ActorID:         t.ActorID,
		Note:            t.Note,
		CreatedAt:       t.CreatedAt,
	}
}

// TransformationsFromDomain converts domain transformations to responses.
func TransformationsFromDomain(transformations []*domain.Transformation) []*TransformationResponse {
	result := make([]*TransformationResponse, len(transformations))
	for i, t := range transformations {
		result[i] = TransformationFromDomain(t)
	}
	return result
}

// BalanceResponse represents a stock position in API responses.
type BalanceResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductCode string          `json:"product_code,omitempty"`
	WarehouseID int64           `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Value       decimal.Decimal `json:"value"`
}

// BalanceFromUseCase converts a balance to a response.
func BalanceFromUseCase(b *usecase.Balance) *BalanceResponse {
	return &BalanceResponse{
		ProductID:   b.ProductID,
		ProductName: b.ProductName,
		ProductCode: b.ProductCode,
		WarehouseID: b.WarehouseID,
		Quantity:    b.Quantity,
		UnitCost:    b.UnitCost,
		Value:       b.Value,
	}
}

// BalancesFromUseCase converts balances to responses.
func BalancesFromUseCase(balances []*usecase.Balance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromUseCase(b)
	}
	return result
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Perishable bool      `json:"perishable"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductFromDomain converts a domain product to a response.
func ProductFromDomain(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Code:       p.Code,
		Perishable: p.Perishable,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ProductsFromDomain converts domain products to responses.
func ProductsFromDomain(products []*domain.Product) []*ProductResponse {
	result := make([]*ProductResponse, len(products))
	for i, p := range products {
		result[i] = ProductFromDomain(p)
	}
	return result
}

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseFromDomain converts a domain warehouse to a response.
func WarehouseFromDomain(w *domain.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// WarehousesFromDomain converts domain warehouses to responses.
func WarehousesFromDomain(warehouses []*domain.Warehouse) []*WarehouseResponse {
	result := make([]*WarehouseResponse, len(warehouses))
	for i, w := range warehouses {
		result[i] = WarehouseFromDomain(w)
	}
	return result
}

// YieldProfileResponse represents a configured yield in API responses.
type YieldProfileResponse struct {
	InputProductID  int64           `json:"input_product_id"`
	OutputProductID int64           `json:"output_product_id"`
	Factor          decimal.Decimal `json:"factor"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// YieldProfilesFromDomain converts domain yield profiles to responses.
func YieldProfilesFromDomain(profiles []*domain.YieldProfile) []*YieldProfileResponse {
	result := make([]*YieldProfileResponse, len(profiles))
	for i, p := range profiles {
		result[i] = &YieldProfileResponse{
			InputProductID:  p.InputProductID,
			OutputProductID: p.OutputProductID,
			Factor:          p.Factor,
			UpdatedAt:       p.UpdatedAt,
		}
	}
	return result
}

// DiscrepancyResponse is one drifted stock level in a reconciliation
// report.
type DiscrepancyResponse struct {
	ProductID        int64           `json:"product_id"`
	WarehouseID      int64           `json:"warehouse_id"`
	StoredQuantity   decimal.Decimal `json:"stored_quantity"`
	ReplayedQuantity decimal.Decimal `json:"replayed_quantity"`
	StoredUnitCost   decimal.Decimal `json:"stored_unit_cost"`
	ReplayedUnitCost decimal.Decimal `json:"replayed_unit_cost"`
}

// ReconciliationResponse represents a reconciliation report.
type ReconciliationResponse struct {
	MovementsReplayed int                   `json:"movements_replayed"`
	KeysChecked       int                   `json:"keys_checked"`
	Consistent        bool                  `json:"consistent"`
	Discrepancies     []DiscrepancyResponse `json:"discrepancies,omitempty"`
	CheckedAt         time.Time             `json:"checked_at"`
}

// ReconciliationFromUseCase converts a report to a response.
func ReconciliationFromUseCase(r *usecase.Report) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		MovementsReplayed: r.MovementsReplayed,
		KeysChecked:       r.KeysChecked,
		Consistent:        r.Consistent,
		CheckedAt:         r.CheckedAt,
	}

	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, DiscrepancyResponse{
			ProductID:        d.ProductID,
			WarehouseID:      d.WarehouseID,
			StoredQuantity:   d.StoredQuantity,
			ReplayedQuantity: d.ReplayedQuantity,
			StoredUnitCost:   d.StoredUnitCost,
			ReplayedUnitCost: d.ReplayedUnitCost,
		})
	}

	return resp
}
