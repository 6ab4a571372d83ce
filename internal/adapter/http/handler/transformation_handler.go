package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsiquinajay/kardex/internal/adapter/http/dto"
	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/infrastructure/metrics"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// TransformationService defines the behavior needed by
// TransformationHandler.
type TransformationService interface {
	Process(ctx context.Context, input usecase.ProcessTransformationInput) (*usecase.ProcessResult, error)
	GetTransformation(ctx context.Context, id string) (*domain.Transformation, error)
	ListTransformations(ctx context.Context, limit, offset int) ([]*domain.Transformation, error)
	ListYieldProfiles(ctx context.Context) ([]*domain.YieldProfile, error)
	UpsertYieldProfile(ctx context.Context, profile *domain.YieldProfile) error
}

// TransformationHandler handles transformation-related HTTP requests.
type TransformationHandler struct {
	transformationUC TransformationService
	movementUC       MovementService
}

// NewTransformationHandler creates a new TransformationHandler.
func NewTransformationHandler(transformationUC TransformationService, movementUC MovementService) *TransformationHandler {
	return &TransformationHandler{
		transformationUC: transformationUC,
		movementUC:       movementUC,
	}
}

// Create executes a transformation.
func (h *TransformationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	result, err := h.transformationUC.Process(r.Context(), req.ToUseCaseInput())
	if err != nil {
		metrics.RecordTransformation(metrics.ResultFailed, 0)
		writeError(w, err, err.Error())
		return
	}

	status := http.StatusCreated
	outcome := metrics.ResultCommitted
	if result.Replayed {
		status = http.StatusOK
		outcome = metrics.ResultReplayed
	}
	metrics.RecordTransformation(outcome, result.Transformation.Waste.InexactFloat64())

	writeJSON(w, status, dto.TransformResultFromUseCase(result))
}

// Get retrieves a transformation audit record.
func (h *TransformationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing transformation ID")
		return
	}

	transformation, err := h.transformationUC.GetTransformation(r.Context(), id)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransformationFromDomain(transformation))
}

// List lists transformation audit records.
func (h *TransformationHandler) List(w http.ResponseWriter, r *http.Request) {
	transformations, err := h.transformationUC.ListTransformations(
		r.Context(),
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransformationsFromDomain(transformations))
}

// ListMovements lists the movement pair one transformation wrote.
func (h *TransformationHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing transformation ID")
		return
	}

	// Verify the transformation exists so an unknown id is a 404, not
	// an empty list.
	if _, err := h.transformationUC.GetTransformation(r.Context(), id); err != nil {
		writeError(w, err, err.Error())
		return
	}

	movements, err := h.movementUC.GetByTransformation(r.Context(), id)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}
