package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
	"github.com/jsiquinajay/kardex/internal/usecase/mocks"
)

func newBalanceFixture() (*usecase.BalanceUseCase, *mocks.MockProductRepository, *mocks.MockWarehouseRepository, *mocks.MockStockLevelRepository) {
	productRepo := mocks.NewMockProductRepository()
	warehouseRepo := mocks.NewMockWarehouseRepository()
	stockRepo := mocks.NewMockStockLevelRepository()

	productRepo.Add(activeProduct(45, "cherry"), activeProduct(67, "parchment"))
	warehouseRepo.Add(activeWarehouse(1, "mill"), activeWarehouse(2, "export"))

	uc := usecase.NewBalanceUseCase(productRepo, warehouseRepo, stockRepo)

	return uc, productRepo, warehouseRepo, stockRepo
}

func TestBalanceUseCase_GetBalance(t *testing.T) {
	uc, _, _, stockRepo := newBalanceFixture()
	stockRepo.Seed(
		&domain.StockLevel{ProductID: 45, WarehouseID: 1, Quantity: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(4)},
		&domain.StockLevel{ProductID: 45, WarehouseID: 2, Quantity: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(6)},
	)

	ctx := context.Background()

	t.Run("single warehouse", func(t *testing.T) {
		balance, err := uc.GetBalance(ctx, 45, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Quantity.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected quantity 100, got %s", balance.Quantity)
		}
		if !balance.UnitCost.Equal(decimal.NewFromInt(4)) {
			t.Errorf("expected unit cost 4, got %s", balance.UnitCost)
		}
		if !balance.Value.Equal(decimal.NewFromInt(400)) {
			t.Errorf("expected value 400, got %s", balance.Value)
		}
		if balance.ProductName != "cherry" {
			t.Errorf("expected product name, got %q", balance.ProductName)
		}
	})

	t.Run("across warehouses", func(t *testing.T) {
		balance, err := uc.GetBalance(ctx, 45, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 100@4 + 50@6 = 150 units worth 700.
		if !balance.Quantity.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected quantity 150, got %s", balance.Quantity)
		}
		if !balance.Value.Equal(decimal.NewFromInt(700)) {
			t.Errorf("expected value 700, got %s", balance.Value)
		}
		wantCost := decimal.NewFromInt(700).DivRound(decimal.NewFromInt(150), domain.CostScale)
		if !balance.UnitCost.Equal(wantCost) {
			t.Errorf("expected blended cost %s, got %s", wantCost, balance.UnitCost)
		}
	})

	t.Run("known pair with no movements", func(t *testing.T) {
		balance, err := uc.GetBalance(ctx, 67, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Quantity.IsZero() || !balance.UnitCost.IsZero() || !balance.Value.IsZero() {
			t.Errorf("expected zero balance, got %s @ %s", balance.Quantity, balance.UnitCost)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		if _, err := uc.GetBalance(ctx, 999, 1); !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("unknown warehouse", func(t *testing.T) {
		if _, err := uc.GetBalance(ctx, 45, 999); !errors.Is(err, domain.ErrWarehouseNotFound) {
			t.Errorf("expected ErrWarehouseNotFound, got %v", err)
		}
	})
}

func TestBalanceUseCase_ListBalances(t *testing.T) {
	uc, _, _, stockRepo := newBalanceFixture()
	stockRepo.Seed(
		&domain.StockLevel{ProductID: 45, WarehouseID: 1, Quantity: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(4)},
		&domain.StockLevel{ProductID: 45, WarehouseID: 2, Quantity: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(6)},
		&domain.StockLevel{ProductID: 67, WarehouseID: 1, Quantity: decimal.NewFromInt(85), UnitCost: decimal.NewFromInt(5)},
	)

	ctx := context.Background()

	// However many products are asked for, the answer comes from one
	// bulk read.
	reads := 0
	stockRepo.ListBalancesFunc = func(c context.Context, productIDs []int64, warehouseID int64) ([]*domain.StockLevel, error) {
		reads++
		fn := stockRepo.ListBalancesFunc
		stockRepo.ListBalancesFunc = nil
		defer func() { stockRepo.ListBalancesFunc = fn }()
		return stockRepo.ListBalances(c, productIDs, warehouseID)
	}

	balances, err := uc.ListBalances(ctx, usecase.ListBalancesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 3 {
		t.Errorf("expected 3 balances, got %d", len(balances))
	}
	if reads != 1 {
		t.Errorf("expected a single bulk read, got %d", reads)
	}

	balances, err = uc.ListBalances(ctx, usecase.ListBalancesInput{ProductIDs: []int64{45}, WarehouseID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 1 {
		t.Fatalf("expected 1 balance, got %d", len(balances))
	}
	if balances[0].ProductID != 45 || balances[0].WarehouseID != 1 {
		t.Errorf("unexpected balance for product %d warehouse %d", balances[0].ProductID, balances[0].WarehouseID)
	}
	if !balances[0].Value.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected value 400, got %s", balances[0].Value)
	}

	if _, err := uc.ListBalances(ctx, usecase.ListBalancesInput{WarehouseID: 999}); !errors.Is(err, domain.ErrWarehouseNotFound) {
		t.Errorf("expected ErrWarehouseNotFound, got %v", err)
	}
}

func TestBalanceUseCase_ReferenceData(t *testing.T) {
	uc, _, _, _ := newBalanceFixture()
	ctx := context.Background()

	products, err := uc.ListProducts(ctx, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}

	warehouses, err := uc.ListWarehouses(ctx, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warehouses) != 2 {
		t.Errorf("expected 2 warehouses, got %d", len(warehouses))
	}
}
