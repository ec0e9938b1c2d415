package domain

import "time"

// MovementType is the closed set of ledger entry kinds.
type MovementType string

const (
	// Produced internally by reserve/commit/cancel.
	MovementReservation MovementType = "reservation"
	MovementSale        MovementType = "sale"
	MovementRelease     MovementType = "release"

	// Administrative kinds accepted by stock adjustments.
	MovementRestock    MovementType = "restock"
	MovementDamage     MovementType = "damage"
	MovementReturn     MovementType = "return"
	MovementAdjustment MovementType = "adjustment"
)

// Valid reports whether t is one of the known movement kinds.
func (t MovementType) Valid() bool {
	switch t {
	case MovementReservation, MovementSale, MovementRelease,
		MovementRestock, MovementDamage, MovementReturn, MovementAdjustment:
		return true
	}
	return false
}

// Administrative reports whether t may be supplied by a stock adjustment.
// Reservation, sale and release entries are written only by the inventory
// service itself.
func (t MovementType) Administrative() bool {
	switch t {
	case MovementRestock, MovementDamage, MovementReturn, MovementAdjustment:
		return true
	}
	return false
}

// Movement is one immutable ledger entry. StockBefore is always the stock
// value prior to this movement's effect; reservation and release entries touch
// reserved only, so for those StockBefore equals StockAfter.
type Movement struct {
	ID            string
	ProductID     string
	QuantityDelta int
	StockBefore   int
	StockAfter    int
	Type          MovementType
	ReferenceID   string
	PerformedBy   string
	Notes         string
	CreatedAt     time.Time
}
