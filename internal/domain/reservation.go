package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCommitted ReservationStatus = "committed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a time-bounded hold against available stock. Committed and
// cancelled are terminal; reservations are retained for audit, never deleted.
type Reservation struct {
	ID         string
	ProductID  string
	HolderID   string
	Quantity   int
	Status     ReservationStatus
	ReservedAt time.Time
	ExpiresAt  time.Time
	// OrderID is set only when the reservation is committed.
	OrderID string
}

// Expired reports whether the reservation is past its expiry at now. Expired
// reservations are treated as not-active even before the sweeper releases them.
func (r Reservation) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
