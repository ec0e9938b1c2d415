package domain

import "time"

// Product carries the per-product stock counters; the unit of contention.
// Version is the optimistic concurrency token, bumped on every counter write.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Stock        int
	Reserved     int
	ReorderLevel int
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available is the quantity sellable right now.
func (p Product) Available() int {
	return p.Stock - p.Reserved
}

// LowStock reports whether available stock has fallen to or below the
// reorder level.
func (p Product) LowStock() bool {
	return p.Available() <= p.ReorderLevel
}
