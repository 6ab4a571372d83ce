package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
)

// BalanceUseCase answers stock and valuation queries from the running
// stock levels alone. It never scans the movement log and never issues
// per-product sub-queries: a batch of K products costs O(K) reads.
type BalanceUseCase struct {
	productRepo   ProductRepository
	warehouseRepo WarehouseRepository
	stockRepo     StockLevelRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	productRepo ProductRepository,
	warehouseRepo WarehouseRepository,
	stockRepo StockLevelRepository,
) *BalanceUseCase {
	return &BalanceUseCase{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
	}
}

// Balance is one product's stock position.
type Balance struct {
	ProductID   int64
	ProductName string
	ProductCode string
	// WarehouseID is zero when the balance spans all warehouses.
	WarehouseID int64
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Value       decimal.Decimal
}

// GetBalance returns stock and valuation for one product, in one
// warehouse or across all of them. Unknown products and warehouses fail;
// a known pair with no movements yet reports zero.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, productID, warehouseID int64) (*Balance, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	balance := &Balance{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductCode: product.Code,
		WarehouseID: warehouseID,
	}

	if warehouseID == 0 {
		quantity, value, err := uc.stockRepo.SumByProduct(ctx, productID)
		if err != nil {
			return nil, err
		}

		balance.Quantity = quantity
		balance.Value = value
		if quantity.IsPositive() {
			balance.UnitCost = value.DivRound(quantity, domain.CostScale)
		} else {
			balance.UnitCost = decimal.Zero
		}

		return balance, nil
	}

	if _, err := uc.warehouseRepo.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}

	level, err := uc.stockRepo.Get(ctx, domain.StockKey{ProductID: productID, WarehouseID: warehouseID})
	if err != nil {
		if errors.Is(err, domain.ErrStockLevelNotFound) {
			balance.Quantity = decimal.Zero
			balance.UnitCost = decimal.Zero
			balance.Value = decimal.Zero

			return balance, nil
		}

		return nil, err
	}

	balance.Quantity = level.Quantity
	balance.UnitCost = level.UnitCost
	balance.Value = level.Value()

	return balance, nil
}

// ListBalancesInput filters a bulk balance query.
type ListBalancesInput struct {
	// ProductIDs restricts the result; empty means all products with
	// stock levels.
	ProductIDs []int64
	// WarehouseID restricts to one warehouse; zero means all.
	WarehouseID int64
}

// ListBalances returns one balance per (product, warehouse) pair in a
// single bulk read, ordered by product then warehouse.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, input ListBalancesInput) ([]*Balance, error) {
	if input.WarehouseID != 0 {
		if _, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID); err != nil {
			return nil, err
		}
	}

	levels, err := uc.stockRepo.ListBalances(ctx, input.ProductIDs, input.WarehouseID)
	if err != nil {
		return nil, err
	}

	balances := make([]*Balance, 0, len(levels))
	for _, level := range levels {
		balances = append(balances, &Balance{
			ProductID:   level.ProductID,
			WarehouseID: level.WarehouseID,
			Quantity:    level.Quantity,
			UnitCost:    level.UnitCost,
			Value:       level.Value(),
		})
	}

	return balances, nil
}

// ListProducts exposes product reference data.
func (uc *BalanceUseCase) ListProducts(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	limit, offset = domain.ClampPage(limit, offset)

	return uc.productRepo.List(ctx, limit, offset)
}

// ListWarehouses exposes warehouse reference data.
func (uc *BalanceUseCase) ListWarehouses(ctx context.Context, limit, offset int) ([]*domain.Warehouse, error) {
	limit, offset = domain.ClampPage(limit, offset)

	return uc.warehouseRepo.List(ctx, limit, offset)
}
