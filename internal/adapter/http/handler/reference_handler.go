package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jsiquinajay/kardex/internal/adapter/http/dto"
	"github.com/jsiquinajay/kardex/internal/domain"
)

// ReferenceHandler serves product, warehouse and yield reference data.
type ReferenceHandler struct {
	balanceUC        BalanceService
	transformationUC TransformationService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(balanceUC BalanceService, transformationUC TransformationService) *ReferenceHandler {
	return &ReferenceHandler{
		balanceUC:        balanceUC,
		transformationUC: transformationUC,
	}
}

// ListProducts lists products.
func (h *ReferenceHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.balanceUC.ListProducts(
		r.Context(),
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProductsFromDomain(products))
}

// ListWarehouses lists warehouses.
func (h *ReferenceHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.balanceUC.ListWarehouses(
		r.Context(),
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WarehousesFromDomain(warehouses))
}

// ListYields returns the configured yield table.
func (h *ReferenceHandler) ListYields(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.transformationUC.ListYieldProfiles(r.Context())
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.YieldProfilesFromDomain(profiles))
}

// UpsertYield sets the yield for a product pair. The update goes
// through the transformation service so the cached factor is
// invalidated along with the write.
func (h *ReferenceHandler) UpsertYield(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertYieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := domain.ValidateYield(req.Factor); err != nil {
		writeError(w, err, err.Error())
		return
	}

	if err := h.transformationUC.UpsertYieldProfile(r.Context(), req.ToDomain()); err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"result": "success"})
}
