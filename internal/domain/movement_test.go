package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMovement_Validate(t *testing.T) {
	valid := Movement{
		ProductID:   45,
		WarehouseID: 1,
		Quantity:    decimal.NewFromInt(100),
		Direction:   DirectionIn,
		UnitCost:    decimal.NewFromInt(10),
		ActorID:     "user-1",
	}

	tests := []struct {
		name    string
		mutate  func(m *Movement)
		wantErr error
	}{
		{
			name:    "valid movement",
			mutate:  func(m *Movement) {},
			wantErr: nil,
		},
		{
			name:    "zero quantity",
			mutate:  func(m *Movement) { m.Quantity = decimal.Zero },
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			mutate:  func(m *Movement) { m.Quantity = decimal.NewFromInt(-1) },
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "negative unit cost",
			mutate:  func(m *Movement) { m.UnitCost = decimal.NewFromInt(-5) },
			wantErr: ErrInvalidUnitCost,
		},
		{
			name:    "unknown direction",
			mutate:  func(m *Movement) { m.Direction = "ADJUST" },
			wantErr: ErrInvalidDirection,
		},
		{
			name:    "missing actor",
			mutate:  func(m *Movement) { m.ActorID = "" },
			wantErr: ErrMissingActor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)

			err := m.Validate()
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMovement_SignedQuantity(t *testing.T) {
	in := Movement{Quantity: decimal.NewFromInt(10), Direction: DirectionIn}
	out := Movement{Quantity: decimal.NewFromInt(4), Direction: DirectionOut}

	sum := in.SignedQuantity().Add(out.SignedQuantity())
	if !sum.Equal(decimal.NewFromInt(6)) {
		t.Errorf("expected signed sum 6, got %s", sum)
	}
}

func TestStockLevel_ValidateOut(t *testing.T) {
	level := StockLevel{Quantity: decimal.NewFromInt(100)}

	if err := level.ValidateOut(decimal.NewFromInt(100)); err != nil {
		t.Errorf("full consumption should be allowed: %v", err)
	}

	if err := level.ValidateOut(decimal.RequireFromString("100.0001")); err != ErrInsufficientStock {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestStockKey_Less(t *testing.T) {
	a := StockKey{ProductID: 45, WarehouseID: 2}
	b := StockKey{ProductID: 67, WarehouseID: 1}
	c := StockKey{ProductID: 45, WarehouseID: 3}

	if !a.Less(b) {
		t.Error("lower product id must sort first")
	}

	if !a.Less(c) {
		t.Error("same product: lower warehouse id must sort first")
	}

	if b.Less(a) {
		t.Error("ordering must be asymmetric")
	}
}
