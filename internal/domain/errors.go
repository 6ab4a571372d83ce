package domain

import "errors"

var (
	// Reference data errors
	ErrProductNotFound     = errors.New("product not found")
	ErrWarehouseNotFound   = errors.New("warehouse not found")
	ErrProductInactive     = errors.New("product is inactive")
	ErrWarehouseInactive   = errors.New("warehouse is inactive")
	ErrStockLevelNotFound  = errors.New("stock level not found")
	ErrMovementNotFound    = errors.New("movement not found")
	ErrYieldProfileMissing = errors.New("yield profile not found")

	// Movement errors
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidUnitCost   = errors.New("unit cost must not be negative")
	ErrInvalidDirection  = errors.New("direction must be IN or OUT")
	ErrInsufficientStock = errors.New("insufficient stock on hand")
	ErrMissingActor      = errors.New("actor id is required")

	// Transformation errors
	ErrTransformationNotFound = errors.New("transformation not found")
	ErrSameProduct            = errors.New("cannot transform a product into itself")
	ErrInvalidYield           = errors.New("yield must be in (0, 1]")
	ErrInvalidOverhead        = errors.New("overhead cost must not be negative")
	ErrTransformationExists   = errors.New("transformation id already committed")
	ErrTransformationConflict = errors.New("transformation id already committed with a different payload")

	// Persistence errors
	ErrTransactionFailed = errors.New("transaction failed")
)

// ErrorKind classifies domain errors for callers that need a stable
// machine-readable category rather than a Go error value.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindTransaction       ErrorKind = "transaction"
	KindInternal          ErrorKind = "internal"
)

// Kind maps an error to its ErrorKind. Wrapped errors are unwrapped via
// errors.Is, so repositories may add context with fmt.Errorf and %w.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrWarehouseNotFound),
		errors.Is(err, ErrStockLevelNotFound),
		errors.Is(err, ErrMovementNotFound),
		errors.Is(err, ErrTransformationNotFound),
		errors.Is(err, ErrYieldProfileMissing):
		return KindNotFound
	case errors.Is(err, ErrTransformationConflict):
		return KindConflict
	case errors.Is(err, ErrTransactionFailed):
		return KindTransaction
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidUnitCost),
		errors.Is(err, ErrInvalidDirection),
		errors.Is(err, ErrInvalidYield),
		errors.Is(err, ErrInvalidOverhead),
		errors.Is(err, ErrSameProduct),
		errors.Is(err, ErrMissingActor),
		errors.Is(err, ErrProductInactive),
		errors.Is(err, ErrWarehouseInactive):
		return KindValidation
	default:
		return KindInternal
	}
}
