package domain

import "time"

// Product is reference data. The ledger never mutates products; it only
// checks existence and the active flag before accepting movements.
type Product struct {
	ID         int64
	Name       string
	Code       string
	Perishable bool
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
