package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jsiquinajay/kardex/internal/adapter/http/dto"
	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/infrastructure/metrics"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// MovementService defines the behavior needed by MovementHandler.
type MovementService interface {
	RecordMovement(ctx context.Context, input usecase.RecordMovementInput) (*domain.Movement, error)
	History(ctx context.Context, input usecase.HistoryInput) ([]*domain.Movement, error)
	GetByTransformation(ctx context.Context, transformationID string) ([]*domain.Movement, error)
}

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	movementUC MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC MovementService) *MovementHandler {
	return &MovementHandler{movementUC: movementUC}
}

// Create records a new movement.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	movement, err := h.movementUC.RecordMovement(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	metrics.RecordMovement(string(movement.Direction))
	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// List lists movement history for a (product, warehouse) pair.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	productID := parseInt64Query(r, "product_id", 0)
	warehouseID := parseInt64Query(r, "warehouse_id", 0)
	if productID == 0 || warehouseID == 0 {
		writeBadRequest(w, "product_id and warehouse_id are required")
		return
	}

	movements, err := h.movementUC.History(r.Context(), usecase.HistoryInput{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Limit:       parseIntQuery(r, "limit", 0),
		Offset:      parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}
