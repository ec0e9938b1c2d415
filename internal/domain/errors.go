package domain

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductExists       = errors.New("product already exists")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrInsufficientStock = errors.New("insufficient stock")

	ErrReservationNotActive = errors.New("reservation is not active")
	ErrReservationExpired   = errors.New("reservation expired")

	ErrConcurrencyConflict = errors.New("concurrent modification detected")

	ErrNegativeStock      = errors.New("adjustment would drive stock negative")
	ErrStockBelowReserved = errors.New("adjustment would drive stock below reserved quantity")

	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidTTL          = errors.New("invalid reservation ttl")
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrHolderRequired      = errors.New("holder id required")
	ErrPerformerRequired   = errors.New("performed by required")
	ErrOrderIDRequired     = errors.New("order id required")
	ErrSKURequired         = errors.New("sku required")
	ErrNameRequired        = errors.New("name required")
	ErrInvalidStock        = errors.New("invalid initial stock")
	ErrInvalidReorderLevel = errors.New("invalid reorder level")
	ErrInvalidID           = errors.New("invalid id")
)
