package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
)

// MovementUseCase is the write path of the movement ledger: it appends
// movements and keeps the running stock level for the affected
// (product, warehouse) pair in step, inside one transaction.
type MovementUseCase struct {
	txManager     TransactionManager
	productRepo   ProductRepository
	warehouseRepo WarehouseRepository
	movementRepo  MovementRepository
	stockRepo     StockLevelRepository
	idGen         IDGenerator
	logger        zerolog.Logger
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(
	txManager TransactionManager,
	productRepo ProductRepository,
	warehouseRepo WarehouseRepository,
	movementRepo MovementRepository,
	stockRepo StockLevelRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:     txManager,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
		stockRepo:     stockRepo,
		idGen:         idGen,
		logger:        logger,
	}
}

// RecordMovementInput represents input for recording a movement.
type RecordMovementInput struct {
	ProductID        int64
	WarehouseID      int64
	Quantity         decimal.Decimal
	Direction        domain.Direction
	UnitCost         decimal.Decimal
	ActorID          string
	TransformationID *string
	Note             string
}

// RecordMovement validates the input, then appends a movement and
// updates the running stock level atomically. An OUT that would drive
// the on-hand quantity negative is rejected before anything is written.
// OUT movements always consume at the current weighted-average cost; the
// supplied unit cost only prices IN movements.
func (uc *MovementUseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (*domain.Movement, error) {
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	if err := domain.ValidateUnitCost(input.UnitCost); err != nil {
		return nil, err
	}

	if !input.Direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	if input.ActorID == "" {
		return nil, domain.ErrMissingActor
	}

	if err := uc.checkReferences(ctx, input.ProductID, input.WarehouseID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrTransactionFailed, err)
	}
	defer tx.Rollback(ctx)

	key := domain.StockKey{ProductID: input.ProductID, WarehouseID: input.WarehouseID}

	levels, err := uc.stockRepo.EnsureAndLock(ctx, tx, []domain.StockKey{key})
	if err != nil {
		return nil, fmt.Errorf("%w: lock stock level: %v", domain.ErrTransactionFailed, err)
	}

	level := levels[0]
	now := time.Now().UTC()

	movement := &domain.Movement{
		ID:               uc.idGen.Generate(),
		ProductID:        input.ProductID,
		WarehouseID:      input.WarehouseID,
		Quantity:         input.Quantity,
		Direction:        input.Direction,
		UnitCost:         input.UnitCost,
		OccurredAt:       now,
		ActorID:          input.ActorID,
		TransformationID: input.TransformationID,
		Note:             input.Note,
	}

	var next domain.StockLevel

	switch input.Direction {
	case domain.DirectionIn:
		next = level.ApplyIn(input.Quantity, input.UnitCost)
	case domain.DirectionOut:
		if err := level.ValidateOut(input.Quantity); err != nil {
			return nil, err
		}

		movement.UnitCost = level.UnitCost
		next = level.ApplyOut(input.Quantity)
	}

	next.UpdatedAt = now
	movement.StockVersion = next.Version

	if err := movement.Validate(); err != nil {
		return nil, err
	}

	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, fmt.Errorf("%w: insert movement: %v", domain.ErrTransactionFailed, err)
	}

	if err := uc.stockRepo.Update(ctx, tx, &next); err != nil {
		return nil, fmt.Errorf("%w: update stock level: %v", domain.ErrTransactionFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", domain.ErrTransactionFailed, err)
	}

	uc.logger.Info().
		Str("movement_id", movement.ID).
		Int64("product_id", movement.ProductID).
		Int64("warehouse_id", movement.WarehouseID).
		Str("direction", string(movement.Direction)).
		Str("quantity", movement.Quantity.String()).
		Str("unit_cost", movement.UnitCost.String()).
		Msg("movement recorded")

	return movement, nil
}

// CurrentCost returns the current weighted-average unit cost for a
// (product, warehouse) pair. It never fails for missing stock: a pair
// with no prior IN movements has cost zero.
func (uc *MovementUseCase) CurrentCost(ctx context.Context, productID, warehouseID int64) (decimal.Decimal, error) {
	level, err := uc.stockRepo.Get(ctx, domain.StockKey{ProductID: productID, WarehouseID: warehouseID})
	if err != nil {
		if err == domain.ErrStockLevelNotFound {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return level.UnitCost, nil
}

// HistoryInput represents input for listing movement history.
type HistoryInput struct {
	ProductID   int64
	WarehouseID int64
	Limit       int
	Offset      int
}

// History lists movements for a (product, warehouse) pair, ordered by
// occurrence time ascending. This exists for audits and corrections;
// balances never come from here.
func (uc *MovementUseCase) History(ctx context.Context, input HistoryInput) ([]*domain.Movement, error) {
	if err := uc.checkReferencesAnyState(ctx, input.ProductID, input.WarehouseID); err != nil {
		return nil, err
	}

	limit, offset := domain.ClampPage(input.Limit, input.Offset)
	key := domain.StockKey{ProductID: input.ProductID, WarehouseID: input.WarehouseID}

	return uc.movementRepo.ListByKey(ctx, key, limit, offset)
}

// GetByTransformation lists the movements written by one transformation.
func (uc *MovementUseCase) GetByTransformation(ctx context.Context, transformationID string) ([]*domain.Movement, error) {
	return uc.movementRepo.ListByTransformation(ctx, transformationID)
}

// checkReferences verifies the product and warehouse exist and are
// active. Movements against inactive reference data are rejected.
func (uc *MovementUseCase) checkReferences(ctx context.Context, productID, warehouseID int64) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if !product.Active {
		return domain.ErrProductInactive
	}

	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}

	if !warehouse.Active {
		return domain.ErrWarehouseInactive
	}

	return nil
}

// checkReferencesAnyState only verifies existence. History stays
// readable for deactivated products.
func (uc *MovementUseCase) checkReferencesAnyState(ctx context.Context, productID, warehouseID int64) error {
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}

	if _, err := uc.warehouseRepo.GetByID(ctx, warehouseID); err != nil {
		return err
	}

	return nil
}
