package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel is the running (quantity, weighted-average cost) aggregate
// for one (product, warehouse) pair. It is the only mutable record the
// ledger owns and is always derivable from the movement log by replay.
type StockLevel struct {
	ProductID   int64
	WarehouseID int64
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Version     int64
	UpdatedAt   time.Time
}

// ValidateOut checks whether quantity can leave without driving the
// on-hand balance negative.
func (s *StockLevel) ValidateOut(quantity decimal.Decimal) error {
	if s.Quantity.Sub(quantity).IsNegative() {
		return ErrInsufficientStock
	}

	return nil
}

// ApplyIn returns the level after receiving quantity at unitCost. The
// average is the quantity-weighted blend of the prior average and the
// incoming cost.
func (s *StockLevel) ApplyIn(quantity, unitCost decimal.Decimal) StockLevel {
	next := *s
	next.UnitCost = WeightedAverage(s.Quantity, s.UnitCost, quantity, unitCost)
	next.Quantity = s.Quantity.Add(quantity)
	next.Version = s.Version + 1

	return next
}

// ApplyOut returns the level after consuming quantity. The average cost
// does not change on the way out.
func (s *StockLevel) ApplyOut(quantity decimal.Decimal) StockLevel {
	next := *s
	next.Quantity = s.Quantity.Sub(quantity)
	next.Version = s.Version + 1

	return next
}

// Value returns quantity x unit cost.
func (s *StockLevel) Value() decimal.Decimal {
	return s.Quantity.Mul(s.UnitCost)
}

// StockKey identifies a (product, warehouse) pair. Keys are the unit of
// locking: writers lock keys in ascending order to avoid deadlock.
type StockKey struct {
	ProductID   int64
	WarehouseID int64
}

// Less orders keys by product id, then warehouse id.
func (k StockKey) Less(other StockKey) bool {
	if k.ProductID != other.ProductID {
		return k.ProductID < other.ProductID
	}

	return k.WarehouseID < other.WarehouseID
}
