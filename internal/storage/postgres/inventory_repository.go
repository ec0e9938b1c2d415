package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

type InventoryRepository struct {
	store
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{store{pool: pool}}
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const productColumns = `id, sku, name, stock, reserved, reorder_level, version, created_at, updated_at`

func (r *InventoryRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(r.queryRow(ctx, query, productID), "get product")
}

func (r *InventoryRepository) GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanProduct(r.queryRow(ctx, query, productID), "get product for update")
}

func (r *InventoryRepository) scanProduct(row pgx.Row, op string) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Stock, &p.Reserved, &p.ReorderLevel, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r *InventoryRepository) UpdateProductCounters(ctx context.Context, product domain.Product) (domain.Product, error) {
	const stmt = `
UPDATE products
SET stock = $2, reserved = $3, version = version + 1, updated_at = $4
WHERE id = $1 AND version = $5
RETURNING version`

	err := r.queryRow(ctx, stmt,
		product.ID,
		product.Stock,
		product.Reserved,
		product.UpdatedAt,
		product.Version,
	).Scan(&product.Version)
	if err != nil {
		// The row was just read inside this transaction, so no rows back
		// means the version moved underneath us.
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrConcurrencyConflict
		}
		return domain.Product{}, fmt.Errorf("update product counters: %w", err)
	}
	return product, nil
}

func (r *InventoryRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) error {
	const stmt = `
INSERT INTO stock_reservations (id, product_id, holder_id, quantity, status, reserved_at, expires_at, order_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))`

	_, err := r.exec(ctx, stmt,
		reservation.ID,
		reservation.ProductID,
		reservation.HolderID,
		reservation.Quantity,
		reservation.Status,
		reservation.ReservedAt,
		reservation.ExpiresAt,
		reservation.OrderID,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

const reservationColumns = `id, product_id, holder_id, quantity, status, reserved_at, expires_at, COALESCE(order_id, '')`

func (r *InventoryRepository) GetReservationForUpdate(ctx context.Context, reservationID string) (domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1 FOR UPDATE`

	var res domain.Reservation
	var status string
	err := r.queryRow(ctx, query, reservationID).
		Scan(&res.ID, &res.ProductID, &res.HolderID, &res.Quantity, &status, &res.ReservedAt, &res.ExpiresAt, &res.OrderID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	res.Status = domain.ReservationStatus(status)
	return res, nil
}

func (r *InventoryRepository) UpdateReservation(ctx context.Context, reservation domain.Reservation) error {
	const stmt = `
UPDATE stock_reservations
SET status = $2, order_id = NULLIF($3, '')
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, reservation.ID, reservation.Status, reservation.OrderID)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// ListExpiredForUpdate locks and returns active reservations past their
// expiry. SKIP LOCKED keeps the sweeper from stalling behind a commit or
// cancel already holding one of the rows.
func (r *InventoryRepository) ListExpiredForUpdate(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	query := `
SELECT ` + reservationColumns + `
FROM stock_reservations
WHERE status = 'active' AND expires_at < $1
ORDER BY expires_at
FOR UPDATE SKIP LOCKED`

	rows, err := r.query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		var status string
		if err := rows.Scan(&res.ID, &res.ProductID, &res.HolderID, &res.Quantity, &status, &res.ReservedAt, &res.ExpiresAt, &res.OrderID); err != nil {
			return nil, fmt.Errorf("scan expired reservation: %w", err)
		}
		res.Status = domain.ReservationStatus(status)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) AppendMovement(ctx context.Context, movement domain.Movement) error {
	return appendMovement(ctx, r.store, movement)
}

func (r *InventoryRepository) ListMovements(ctx context.Context, productID string, limit int) ([]domain.Movement, error) {
	const query = `
SELECT id, product_id, quantity_delta, stock_before, stock_after, movement_type,
       COALESCE(reference_id, ''), performed_by, COALESCE(notes, ''), created_at
FROM stock_movements
WHERE product_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	rows, err := r.query(ctx, query, productID, limit)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []domain.Movement
	for rows.Next() {
		var m domain.Movement
		var movementType string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.QuantityDelta, &m.StockBefore, &m.StockAfter,
			&movementType, &m.ReferenceID, &m.PerformedBy, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = domain.MovementType(movementType)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	query := `
SELECT ` + productColumns + `
FROM products
WHERE stock - reserved <= reorder_level
ORDER BY stock - reserved`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Stock, &p.Reserved, &p.ReorderLevel, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return out, nil
}

// appendMovement is shared with the product repository so product creation can
// seed the ledger in the same transaction.
func appendMovement(ctx context.Context, s store, movement domain.Movement) error {
	const stmt = `
INSERT INTO stock_movements (id, product_id, quantity_delta, stock_before, stock_after,
	movement_type, reference_id, performed_by, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10)`

	_, err := s.exec(ctx, stmt,
		movement.ID,
		movement.ProductID,
		movement.QuantityDelta,
		movement.StockBefore,
		movement.StockAfter,
		movement.Type,
		movement.ReferenceID,
		movement.PerformedBy,
		movement.Notes,
		movement.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}
