package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
)

// TransformationUseCase converts stock of one product into stock of
// another as a single atomic unit of work: one OUT movement for the
// input at its current average cost, one IN movement for the
// yield-adjusted output at the computed cost, and one audit record
// linking them. Nothing persists unless all of it does.
type TransformationUseCase struct {
	txManager          TransactionManager
	productRepo        ProductRepository
	warehouseRepo      WarehouseRepository
	movementRepo       MovementRepository
	stockRepo          StockLevelRepository
	transformationRepo TransformationRepository
	yieldRepo          YieldRepository
	yieldCache         Cache
	yieldCacheTTL      time.Duration
	idGen              IDGenerator
	defaultYield       decimal.Decimal
	logger             zerolog.Logger
}

// TransformationConfig holds the optional collaborators and policy knobs.
type TransformationConfig struct {
	// YieldCache, when set, fronts YieldRepository lookups.
	YieldCache Cache
	// YieldCacheTTL bounds staleness of cached factors. Zero value
	// means the package default.
	YieldCacheTTL time.Duration
	// DefaultYield applies when neither the request nor the configured
	// profiles provide a factor. Zero value means 1.0 (no loss).
	DefaultYield decimal.Decimal
}

// NewTransformationUseCase creates a new TransformationUseCase.
func NewTransformationUseCase(
	txManager TransactionManager,
	productRepo ProductRepository,
	warehouseRepo WarehouseRepository,
	movementRepo MovementRepository,
	stockRepo StockLevelRepository,
	transformationRepo TransformationRepository,
	yieldRepo YieldRepository,
	idGen IDGenerator,
	cfg TransformationConfig,
	logger zerolog.Logger,
) *TransformationUseCase {
	defaultYield := cfg.DefaultYield
	if defaultYield.IsZero() {
		defaultYield = decimal.NewFromInt(1)
	}

	cacheTTL := cfg.YieldCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = yieldCacheTTL
	}

	return &TransformationUseCase{
		txManager:          txManager,
		productRepo:        productRepo,
		warehouseRepo:      warehouseRepo,
		movementRepo:       movementRepo,
		stockRepo:          stockRepo,
		transformationRepo: transformationRepo,
		yieldRepo:          yieldRepo,
		yieldCache:         cfg.YieldCache,
		yieldCacheTTL:      cacheTTL,
		idGen:              idGen,
		defaultYield:       defaultYield,
		logger:             logger,
	}
}

// ProcessTransformationInput represents a transformation request.
type ProcessTransformationInput struct {
	InputProductID  int64
	InputQuantity   decimal.Decimal
	OutputProductID int64
	WarehouseID     int64
	ActorID         string
	// Yield overrides the configured profile when set.
	Yield *decimal.Decimal
	// OverheadCost is added to the consumed input value before it is
	// spread over the output quantity. Nil means zero.
	OverheadCost *decimal.Decimal
	// TransformationID makes the request idempotent: re-submitting a
	// committed id with the same payload returns the stored result.
	// Generated when empty.
	TransformationID string
	Note             string
}

// ProcessResult describes a completed transformation. Replayed reports
// whether the result came from a previously committed submission.
type ProcessResult struct {
	Transformation *domain.Transformation
	Replayed       bool
}

// Process executes the transformation. On any failure after the
// transaction opens, every movement and the audit record roll back
// together; a partial transformation never persists.
func (uc *TransformationUseCase) Process(ctx context.Context, input ProcessTransformationInput) (*ProcessResult, error) {
	yield, err := uc.resolveYield(ctx, input)
	if err != nil {
		return nil, err
	}

	overhead := decimal.Zero
	if input.OverheadCost != nil {
		overhead = *input.OverheadCost
	}

	id := input.TransformationID
	if id == "" {
		id = uc.idGen.Generate()
	}

	plan := domain.PlanTransformation(input.InputQuantity, yield)

	request := &domain.Transformation{
		ID:             id,
		InputProductID: input.InputProductID,
		InputQuantity:  input.InputQuantity,
		OutputProduct:  input.OutputProductID,
		OutputQuantity: plan.OutputQuantity,
		Yield:          yield,
		Waste:          plan.Waste,
		OverheadCost:   overhead,
		WarehouseID:    input.WarehouseID,
		ActorID:        input.ActorID,
		Note:           input.Note,
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if plan.OutputQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	// Idempotency pre-check runs before the reference checks: a
	// committed id replays (or conflicts) even if its product or
	// warehouse has been deactivated since.
	if result, err := uc.checkCommitted(ctx, request); result != nil || err != nil {
		return result, err
	}

	if err := uc.checkReferences(ctx, input.InputProductID, input.OutputProductID, input.WarehouseID); err != nil {
		return nil, err
	}

	result, err := uc.execute(ctx, request)
	if err != nil {
		if errors.Is(err, domain.ErrTransformationExists) {
			// Lost the race against a concurrent submission of the same
			// id. Our transaction rolled back; resolve against the row
			// that won.
			return uc.checkCommitted(ctx, request)
		}

		uc.logger.Error().
			Err(err).
			Str("transformation_id", request.ID).
			Msg("transformation failed")

		return nil, err
	}

	uc.logger.Info().
		Str("transformation_id", result.Transformation.ID).
		Int64("input_product_id", request.InputProductID).
		Int64("output_product_id", request.OutputProduct).
		Str("input_quantity", request.InputQuantity.String()).
		Str("output_quantity", request.OutputQuantity.String()).
		Str("waste", request.Waste.String()).
		Str("yield", request.Yield.String()).
		Msg("transformation committed")

	return result, nil
}

func (uc *TransformationUseCase) execute(ctx context.Context, request *domain.Transformation) (*ProcessResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrTransactionFailed, err)
	}
	defer tx.Rollback(ctx)

	inputKey := domain.StockKey{ProductID: request.InputProductID, WarehouseID: request.WarehouseID}
	outputKey := domain.StockKey{ProductID: request.OutputProduct, WarehouseID: request.WarehouseID}

	// Lock both rows in ascending key order so two transformations on
	// the same pair in opposite directions cannot deadlock.
	keys := []domain.StockKey{inputKey, outputKey}
	if outputKey.Less(inputKey) {
		keys[0], keys[1] = outputKey, inputKey
	}

	levels, err := uc.stockRepo.EnsureAndLock(ctx, tx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: lock stock levels: %v", domain.ErrTransactionFailed, err)
	}

	var inputLevel, outputLevel *domain.StockLevel

	for _, level := range levels {
		switch (domain.StockKey{ProductID: level.ProductID, WarehouseID: level.WarehouseID}) {
		case inputKey:
			inputLevel = level
		case outputKey:
			outputLevel = level
		}
	}

	if inputLevel == nil || outputLevel == nil {
		return nil, fmt.Errorf("%w: locked levels incomplete", domain.ErrTransactionFailed)
	}

	if err := inputLevel.ValidateOut(request.InputQuantity); err != nil {
		return nil, err
	}

	// Cost basis consumed: the input's current weighted average, read
	// under the same lock that guards the update.
	inputCost := inputLevel.UnitCost
	outputCost := domain.OutputUnitCost(request.InputQuantity, inputCost, request.OverheadCost, request.OutputQuantity)

	now := time.Now().UTC()
	request.OutputUnitCost = outputCost
	request.CreatedAt = now

	nextInput := inputLevel.ApplyOut(request.InputQuantity)
	nextInput.UpdatedAt = now

	outMovement := &domain.Movement{
		ID:               uc.idGen.Generate(),
		ProductID:        request.InputProductID,
		WarehouseID:      request.WarehouseID,
		Quantity:         request.InputQuantity,
		Direction:        domain.DirectionOut,
		UnitCost:         inputCost,
		OccurredAt:       now,
		ActorID:          request.ActorID,
		TransformationID: &request.ID,
		Note:             "transformation input",
		StockVersion:     nextInput.Version,
	}

	nextOutput := outputLevel.ApplyIn(request.OutputQuantity, outputCost)
	nextOutput.UpdatedAt = now

	yield := request.Yield
	waste := request.Waste
	inMovement := &domain.Movement{
		ID:               uc.idGen.Generate(),
		ProductID:        request.OutputProduct,
		WarehouseID:      request.WarehouseID,
		Quantity:         request.OutputQuantity,
		Direction:        domain.DirectionIn,
		UnitCost:         outputCost,
		OccurredAt:       now,
		ActorID:          request.ActorID,
		TransformationID: &request.ID,
		Yield:            &yield,
		Waste:            &waste,
		Note:             "transformation output",
		StockVersion:     nextOutput.Version,
	}

	if err := uc.movementRepo.Create(ctx, tx, outMovement); err != nil {
		return nil, fmt.Errorf("%w: insert input movement: %v", domain.ErrTransactionFailed, err)
	}

	if err := uc.movementRepo.Create(ctx, tx, inMovement); err != nil {
		return nil, fmt.Errorf("%w: insert output movement: %v", domain.ErrTransactionFailed, err)
	}

	if err := uc.transformationRepo.Create(ctx, tx, request); err != nil {
		if errors.Is(err, domain.ErrTransformationExists) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: insert transformation: %v", domain.ErrTransactionFailed, err)
	}

	if err := uc.stockRepo.Update(ctx, tx, &nextInput); err != nil {
		return nil, fmt.Errorf("%w: update input stock level: %v", domain.ErrTransactionFailed, err)
	}

	if err := uc.stockRepo.Update(ctx, tx, &nextOutput); err != nil {
		return nil, fmt.Errorf("%w: update output stock level: %v", domain.ErrTransactionFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", domain.ErrTransactionFailed, err)
	}

	return &ProcessResult{Transformation: request}, nil
}

// checkCommitted resolves a transformation id that may already be
// committed: same payload replays the stored result, a differing payload
// is a conflict. Returns (nil, nil) for an unknown id.
func (uc *TransformationUseCase) checkCommitted(ctx context.Context, request *domain.Transformation) (*ProcessResult, error) {
	existing, err := uc.transformationRepo.GetByID(ctx, request.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTransformationNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if !existing.SamePayload(request) {
		uc.logger.Warn().
			Str("transformation_id", request.ID).
			Msg("duplicate transformation id with differing payload")

		return nil, domain.ErrTransformationConflict
	}

	return &ProcessResult{Transformation: existing, Replayed: true}, nil
}

// GetTransformation retrieves a transformation audit record by ID.
func (uc *TransformationUseCase) GetTransformation(ctx context.Context, id string) (*domain.Transformation, error) {
	return uc.transformationRepo.GetByID(ctx, id)
}

// ListTransformations lists transformation audit records.
func (uc *TransformationUseCase) ListTransformations(ctx context.Context, limit, offset int) ([]*domain.Transformation, error) {
	limit, offset = domain.ClampPage(limit, offset)

	return uc.transformationRepo.List(ctx, limit, offset)
}

// ListYieldProfiles exposes the configured yield table.
func (uc *TransformationUseCase) ListYieldProfiles(ctx context.Context) ([]*domain.YieldProfile, error) {
	return uc.yieldRepo.List(ctx)
}

// UpsertYieldProfile stores a yield factor and drops the cached entry
// for the pair, so the next transformation reads the new value instead
// of serving a stale factor until the cache TTL expires.
func (uc *TransformationUseCase) UpsertYieldProfile(ctx context.Context, profile *domain.YieldProfile) error {
	if err := domain.ValidateYield(profile.Factor); err != nil {
		return err
	}

	if err := uc.yieldRepo.Upsert(ctx, profile); err != nil {
		return err
	}

	if uc.yieldCache != nil {
		key := yieldCacheKey(profile.InputProductID, profile.OutputProductID)
		if err := uc.yieldCache.Delete(ctx, key); err != nil {
			// The repository write committed; a failed invalidation only
			// leaves the old factor visible until the TTL expires.
			uc.logger.Warn().
				Err(err).
				Str("cache_key", key).
				Msg("failed to invalidate yield cache")
		}
	}

	return nil
}

// resolveYield picks the yield factor: explicit request value, then the
// configured profile for the product pair, then the default.
func (uc *TransformationUseCase) resolveYield(ctx context.Context, input ProcessTransformationInput) (decimal.Decimal, error) {
	if input.Yield != nil {
		if err := domain.ValidateYield(*input.Yield); err != nil {
			return decimal.Zero, err
		}

		return *input.Yield, nil
	}

	cacheKey := yieldCacheKey(input.InputProductID, input.OutputProductID)

	if uc.yieldCache != nil {
		if cached, err := uc.yieldCache.Get(ctx, cacheKey); err == nil {
			if factor, err := decimal.NewFromString(cached); err == nil {
				return factor, nil
			}
		}
	}

	factor, err := uc.yieldRepo.GetFactor(ctx, input.InputProductID, input.OutputProductID)
	if err != nil {
		if errors.Is(err, domain.ErrYieldProfileMissing) {
			return uc.defaultYield, nil
		}

		return decimal.Zero, err
	}

	if uc.yieldCache != nil {
		// Best effort; a cold cache only costs a repository read.
		_ = uc.yieldCache.Set(ctx, cacheKey, factor.String(), uc.yieldCacheTTL)
	}

	return factor, nil
}

func yieldCacheKey(inputProductID, outputProductID int64) string {
	return fmt.Sprintf("yield:%d:%d", inputProductID, outputProductID)
}

func (uc *TransformationUseCase) checkReferences(ctx context.Context, inputProductID, outputProductID, warehouseID int64) error {
	for _, id := range []int64{inputProductID, outputProductID} {
		product, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !product.Active {
			return domain.ErrProductInactive
		}
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
