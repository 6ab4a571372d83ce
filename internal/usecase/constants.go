package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from holding
	// stock level row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// ReplayPageSize is the page size used when replaying the movement
	// log during reconciliation.
	ReplayPageSize = 500

	// yieldCacheTTL bounds staleness of cached yield profiles. Profiles
	// change rarely (process configuration), so a short TTL is enough to
	// pick up edits without hitting storage per transformation.
	yieldCacheTTL = 5 * time.Minute
)
