package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movementsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kardex_movements_recorded_total",
			Help: "Total number of stock movements written to the ledger",
		},
		[]string{"direction"},
	)

	transformationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kardex_transformations_total",
			Help: "Total number of transformation requests by outcome",
		},
		[]string{"result"},
	)

	wasteRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kardex_transformation_waste_total",
			Help: "Accumulated waste quantity across all transformations",
		},
	)

	reconciliationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kardex_reconciliation_runs_total",
			Help: "Total number of reconciliation runs by outcome",
		},
		[]string{"outcome"},
	)
)

// Transformation outcomes.
const (
	ResultCommitted = "committed"
	ResultReplayed  = "replayed"
	ResultFailed    = "failed"
)

// RecordMovement counts one committed movement.
func RecordMovement(direction string) {
	movementsRecorded.WithLabelValues(direction).Inc()
}

// RecordTransformation counts one transformation request. Waste is
// only accumulated for newly committed transformations; replays would
// double count it.
func RecordTransformation(result string, waste float64) {
	transformationsProcessed.WithLabelValues(result).Inc()
	if result == ResultCommitted {
		wasteRecorded.Add(waste)
	}
}

// RecordReconciliation counts one reconciliation run.
func RecordReconciliation(consistent bool) {
	outcome := "consistent"
	if !consistent {
		outcome = "drift"
	}
	reconciliationRuns.WithLabelValues(outcome).Inc()
}
