package domain

import "time"

// Warehouse is reference data.
type Warehouse struct {
	ID        int64
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
