package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid reports whether the direction is a known value.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Movement is a single append-only ledger entry. Once written it is
// immutable; corrections are new offsetting movements, never edits.
type Movement struct {
	ID               string
	ProductID        int64
	WarehouseID      int64
	Quantity         decimal.Decimal
	Direction        Direction
	UnitCost         decimal.Decimal
	OccurredAt       time.Time
	ActorID          string
	TransformationID *string
	Yield            *decimal.Decimal
	Waste            *decimal.Decimal
	Note             string
	StockVersion     int64
}

// Validate checks the movement invariants before it is written.
func (m *Movement) Validate() error {
	if m.Quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}

	if m.UnitCost.IsNegative() {
		return ErrInvalidUnitCost
	}

	if !m.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if m.ActorID == "" {
		return ErrMissingActor
	}

	return nil
}

// SignedQuantity returns the quantity with an OUT movement negated,
// so that summing signed quantities yields the on-hand balance.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}

	return m.Quantity
}
