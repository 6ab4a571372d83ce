package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jsiquinajay/kardex/internal/adapter/http/dto"
	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler and
// ReferenceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, productID, warehouseID int64) (*usecase.Balance, error)
	ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*usecase.Balance, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	ListWarehouses(ctx context.Context, limit, offset int) ([]*domain.Warehouse, error)
}

// BalanceHandler handles stock balance queries.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns the stock position for one product, in one warehouse or
// across all of them.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid product ID")
		return
	}

	warehouseID := parseInt64Query(r, "warehouse_id", 0)

	balance, err := h.balanceUC.GetBalance(r.Context(), productID, warehouseID)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromUseCase(balance))
}

// List returns one balance per (product, warehouse) pair.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListBalancesInput{
		WarehouseID: parseInt64Query(r, "warehouse_id", 0),
	}

	for _, raw := range r.URL.Query()["product_id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid product_id filter")
			return
		}
		input.ProductIDs = append(input.ProductIDs, id)
	}

	balances, err := h.balanceUC.ListBalances(r.Context(), input)
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromUseCase(balances))
}
