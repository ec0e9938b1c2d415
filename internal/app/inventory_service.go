package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/santhoshgedare/kavyas-inventory/internal/clock"
	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

// systemActor attributes sweeper-initiated releases in the movement ledger.
const systemActor = "system"

type InventoryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error)
	// UpdateProductCounters writes stock/reserved guarded by the product's
	// version and returns the product with the bumped version. A stale version
	// yields domain.ErrConcurrencyConflict.
	UpdateProductCounters(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateReservation(ctx context.Context, reservation domain.Reservation) error
	GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error)
	UpdateReservation(ctx context.Context, reservation domain.Reservation) error
	ListExpiredForUpdate(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	AppendMovement(ctx context.Context, movement domain.Movement) error
	ListMovements(ctx context.Context, productID string, limit int) ([]domain.Movement, error)
	ListLowStock(ctx context.Context) ([]domain.Product, error)
}

// InventoryService arbitrates concurrent claims against product stock. It is
// the sole mutator of product counters and reservations; every mutation runs
// inside one repository transaction and appends exactly one ledger entry.
type InventoryService struct {
	repo   InventoryRepository
	clock  clock.Clock
	logger *zap.Logger
	ttl    time.Duration
}

const defaultReservationTTL = 15 * time.Minute

const defaultHistoryLimit = 50

func NewInventoryService(repo InventoryRepository, clk clock.Clock, logger *zap.Logger, opts ...InventoryServiceOption) *InventoryService {
	svc := &InventoryService{
		repo:   repo,
		clock:  clk,
		logger: logger,
		ttl:    defaultReservationTTL,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type InventoryServiceOption func(*InventoryService)

// WithReservationTTL overrides the default TTL applied when a reserve request
// does not carry its own.
func WithReservationTTL(d time.Duration) InventoryServiceOption {
	return func(s *InventoryService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// CheckAvailability reports whether at least quantity units are available at
// the instant of the read. Advisory only; the answer can be stale by the time
// a reservation is attempted.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.Available() >= quantity, nil
}

type ReserveInput struct {
	ProductID string
	HolderID  string
	Quantity  int
	// TTL of zero selects the service default; negative values are rejected.
	TTL time.Duration
}

// Reserve places a hold of Quantity units for HolderID. The product row is
// re-read under the transaction, so two concurrent reserves cannot jointly
// exceed available stock.
func (s *InventoryService) Reserve(ctx context.Context, in ReserveInput) (domain.Reservation, error) {
	if in.Quantity <= 0 {
		return domain.Reservation{}, domain.ErrInvalidQuantity
	}
	if in.TTL < 0 {
		return domain.Reservation{}, domain.ErrInvalidTTL
	}
	if in.HolderID == "" {
		return domain.Reservation{}, domain.ErrHolderRequired
	}

	ttl := s.ttl
	if in.TTL > 0 {
		ttl = in.TTL
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.repo.GetProductForUpdate(txCtx, in.ProductID)
		if err != nil {
			return err
		}
		if product.Available() < in.Quantity {
			return domain.ErrInsufficientStock
		}

		product.Reserved += in.Quantity
		product.UpdatedAt = now
		updated, err := s.repo.UpdateProductCounters(txCtx, product)
		if err != nil {
			return err
		}

		reservation := domain.Reservation{
			ID:         newID(),
			ProductID:  in.ProductID,
			HolderID:   in.HolderID,
			Quantity:   in.Quantity,
			Status:     domain.ReservationStatusActive,
			ReservedAt: now,
			ExpiresAt:  now.Add(ttl),
		}
		if err := s.repo.CreateReservation(txCtx, reservation); err != nil {
			return err
		}

		// Reservation entries track intent against available stock; the stock
		// counter itself is unchanged.
		movement := domain.Movement{
			ID:            newID(),
			ProductID:     in.ProductID,
			QuantityDelta: -in.Quantity,
			StockBefore:   updated.Stock,
			StockAfter:    updated.Stock,
			Type:          domain.MovementReservation,
			ReferenceID:   reservation.ID,
			PerformedBy:   in.HolderID,
			Notes:         fmt.Sprintf("reserved %d units for %s", in.Quantity, in.HolderID),
			CreatedAt:     now,
		}
		if err := s.repo.AppendMovement(txCtx, movement); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	s.logger.Info("stock reserved",
		zap.String("product_id", in.ProductID),
		zap.String("reservation_id", result.ID),
		zap.Int("quantity", in.Quantity))
	return result, nil
}

// Commit converts an active reservation into a permanent stock deduction tied
// to orderID. Terminal or expired reservations are rejected without mutation.
func (s *InventoryService) Commit(ctx context.Context, reservationID, orderID string) (domain.Reservation, error) {
	if orderID == "" {
		return domain.Reservation{}, domain.ErrOrderIDRequired
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reservation, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if reservation.Status != domain.ReservationStatusActive {
			return domain.ErrReservationNotActive
		}
		if reservation.Expired(now) {
			return domain.ErrReservationExpired
		}

		product, err := s.repo.GetProductForUpdate(txCtx, reservation.ProductID)
		if err != nil {
			return err
		}

		stockBefore := product.Stock
		product.Reserved -= reservation.Quantity
		product.Stock -= reservation.Quantity
		product.UpdatedAt = now
		updated, err := s.repo.UpdateProductCounters(txCtx, product)
		if err != nil {
			return err
		}

		reservation.Status = domain.ReservationStatusCommitted
		reservation.OrderID = orderID
		if err := s.repo.UpdateReservation(txCtx, reservation); err != nil {
			return err
		}

		movement := domain.Movement{
			ID:            newID(),
			ProductID:     reservation.ProductID,
			QuantityDelta: -reservation.Quantity,
			StockBefore:   stockBefore,
			StockAfter:    updated.Stock,
			Type:          domain.MovementSale,
			ReferenceID:   orderID,
			PerformedBy:   reservation.HolderID,
			Notes:         fmt.Sprintf("order %s committed", orderID),
			CreatedAt:     now,
		}
		if err := s.repo.AppendMovement(txCtx, movement); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	s.logger.Info("reservation committed",
		zap.String("reservation_id", reservationID),
		zap.String("order_id", orderID))
	return result, nil
}

// Cancel releases an active reservation back to available stock. The stock
// counter is untouched; only reserved shrinks. Expired reservations are left
// for the sweeper.
func (s *InventoryService) Cancel(ctx context.Context, reservationID string) (domain.Reservation, error) {
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reservation, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if reservation.Status != domain.ReservationStatusActive {
			return domain.ErrReservationNotActive
		}
		if reservation.Expired(now) {
			return domain.ErrReservationExpired
		}

		released, err := s.release(txCtx, reservation, reservation.HolderID, "reservation cancelled", now)
		if err != nil {
			return err
		}
		result = released
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	s.logger.Info("reservation cancelled", zap.String("reservation_id", reservationID))
	return result, nil
}

// ReleaseExpired cancels every reservation past its expiry within a single
// transaction and returns the count released. Reservations already committed
// or cancelled are never touched; running it twice with no new activity
// releases nothing the second time.
func (s *InventoryService) ReleaseExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()
	released := 0

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		expired, err := s.repo.ListExpiredForUpdate(txCtx, now)
		if err != nil {
			return err
		}
		for _, reservation := range expired {
			if reservation.Status != domain.ReservationStatusActive {
				continue
			}
			if _, err := s.release(txCtx, reservation, systemActor, "expired reservation released", now); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

// release performs the shared cancel/expire transition. Must run inside a
// transaction with the reservation row locked.
func (s *InventoryService) release(ctx context.Context, reservation domain.Reservation, performedBy, notes string, now time.Time) (domain.Reservation, error) {
	product, err := s.repo.GetProductForUpdate(ctx, reservation.ProductID)
	if err != nil {
		return domain.Reservation{}, err
	}

	product.Reserved -= reservation.Quantity
	product.UpdatedAt = now
	updated, err := s.repo.UpdateProductCounters(ctx, product)
	if err != nil {
		return domain.Reservation{}, err
	}

	reservation.Status = domain.ReservationStatusCancelled
	if err := s.repo.UpdateReservation(ctx, reservation); err != nil {
		return domain.Reservation{}, err
	}

	movement := domain.Movement{
		ID:            newID(),
		ProductID:     reservation.ProductID,
		QuantityDelta: reservation.Quantity,
		StockBefore:   updated.Stock,
		StockAfter:    updated.Stock,
		Type:          domain.MovementRelease,
		ReferenceID:   reservation.ID,
		PerformedBy:   performedBy,
		Notes:         notes,
		CreatedAt:     now,
	}
	if err := s.repo.AppendMovement(ctx, movement); err != nil {
		return domain.Reservation{}, err
	}
	return reservation, nil
}

type AdjustStockInput struct {
	ProductID   string
	Delta       int
	Type        domain.MovementType
	PerformedBy string
	ReferenceID string
	Notes       string
}

// AdjustStock applies an administrative delta to the stock counter. This is
// the only path by which stock changes outside a commit. Results that would
// drive stock negative or below the reserved quantity are rejected before any
// write.
func (s *InventoryService) AdjustStock(ctx context.Context, in AdjustStockInput) (domain.Product, error) {
	if !in.Type.Administrative() {
		return domain.Product{}, domain.ErrInvalidMovementType
	}
	if in.Delta == 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}
	if in.PerformedBy == "" {
		return domain.Product{}, domain.ErrPerformerRequired
	}

	now := s.clock.Now()
	var result domain.Product

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		product, err := s.repo.GetProductForUpdate(txCtx, in.ProductID)
		if err != nil {
			return err
		}

		stockBefore := product.Stock
		product.Stock += in.Delta
		if product.Stock < 0 {
			return domain.ErrNegativeStock
		}
		if product.Stock < product.Reserved {
			return domain.ErrStockBelowReserved
		}

		product.UpdatedAt = now
		updated, err := s.repo.UpdateProductCounters(txCtx, product)
		if err != nil {
			return err
		}

		movement := domain.Movement{
			ID:            newID(),
			ProductID:     in.ProductID,
			QuantityDelta: in.Delta,
			StockBefore:   stockBefore,
			StockAfter:    updated.Stock,
			Type:          in.Type,
			ReferenceID:   in.ReferenceID,
			PerformedBy:   in.PerformedBy,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := s.repo.AppendMovement(txCtx, movement); err != nil {
			return err
		}

		result = updated
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", in.ProductID),
		zap.Int("delta", in.Delta),
		zap.String("movement_type", string(in.Type)))
	return result, nil
}

// StockHistory returns the product's ledger entries newest first, bounded by
// limit (default 50).
func (s *InventoryService) StockHistory(ctx context.Context, productID string, limit int) ([]domain.Movement, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListMovements(ctx, productID, limit)
}

// LowStockProducts returns products whose available quantity is at or below
// their reorder level, most critical first.
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListLowStock(ctx)
}
