package domain

import "github.com/shopspring/decimal"

// CostingMethod selects how consumed stock is priced.
type CostingMethod string

const (
	// CostingWeightedAverage recomputes the average on each receipt.
	// This is the implemented baseline.
	CostingWeightedAverage CostingMethod = "WEIGHTED_AVERAGE"

	// CostingFIFO prices consumption from the oldest cost lot first.
	// Declared as an extension point for perishable goods; not implemented.
	CostingFIFO CostingMethod = "FIFO"

	// CostingLIFO prices consumption from the newest cost lot first.
	// Declared for completeness; not implemented.
	CostingLIFO CostingMethod = "LIFO"
)

// IsValid reports whether the method is a known value.
func (m CostingMethod) IsValid() bool {
	switch m {
	case CostingWeightedAverage, CostingFIFO, CostingLIFO:
		return true
	default:
		return false
	}
}

// IsSupported reports whether the method is implemented.
func (m CostingMethod) IsSupported() bool {
	return m == CostingWeightedAverage
}

// WeightedAverage returns the unit cost after receiving inQty at inCost
// on top of oldQty at oldCost:
//
//	(oldQty*oldCost + inQty*inCost) / (oldQty + inQty)
//
// A non-positive combined quantity yields zero.
func WeightedAverage(oldQty, oldCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	total := oldQty.Add(inQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	blended := oldQty.Mul(oldCost).Add(inQty.Mul(inCost))

	return blended.DivRound(total, CostScale)
}

// OutputUnitCost prices the product of a transformation: the consumed
// input value plus overhead, spread over the produced quantity.
func OutputUnitCost(inputQty, inputCost, overhead, outputQty decimal.Decimal) decimal.Decimal {
	if outputQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	total := inputQty.Mul(inputCost).Add(overhead)

	return total.DivRound(outputQty, CostScale)
}
