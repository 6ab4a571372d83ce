package handler

import (
	"context"
	"net/http"

	"github.com/jsiquinajay/kardex/internal/adapter/http/dto"
	"github.com/jsiquinajay/kardex/internal/infrastructure/metrics"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// ReconciliationService defines the behavior needed by
// ReconciliationHandler.
type ReconciliationService interface {
	Run(ctx context.Context) (*usecase.Report, error)
}

// ReconciliationHandler triggers ledger-versus-levels verification.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Run replays the movement log and reports any drifted stock levels.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Run(r.Context())
	if err != nil {
		writeError(w, err, err.Error())
		return
	}

	metrics.RecordReconciliation(report.Consistent)
	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}
