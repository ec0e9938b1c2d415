package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
	"github.com/santhoshgedare/kavyas-inventory/internal/testutil"
)

func TestProductRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewProductRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateProduct inserts row and rejects duplicate sku", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC().Truncate(time.Microsecond)

		product := domain.Product{
			ID:           uuid.NewString(),
			SKU:          "SKU-1",
			Name:         "Widget",
			Stock:        10,
			Reserved:     0,
			ReorderLevel: 3,
			Version:      1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.CreateProduct(ctx, product); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.SKU != "SKU-1" || got.Stock != 10 || got.Version != 1 {
			t.Fatalf("unexpected product: %+v", got)
		}

		duplicate := product
		duplicate.ID = uuid.NewString()
		if err := repo.CreateProduct(ctx, duplicate); err != domain.ErrProductExists {
			t.Fatalf("expected ErrProductExists, got %v", err)
		}
	})

	t.Run("GetProduct returns ErrProductNotFound and ErrInvalidID", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.GetProduct(ctx, "00000000-0000-0000-0000-000000000001")
		if err != domain.ErrProductNotFound {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}

		_, err = repo.GetProduct(ctx, "not-a-uuid")
		if err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("ListProducts orders by name", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		testutil.InsertProduct(t, ctx, pool, "SKU-B", 5, 0, 2)
		testutil.InsertProduct(t, ctx, pool, "SKU-A", 7, 1, 2)

		products, err := repo.ListProducts(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		if products[0].SKU != "SKU-A" || products[1].SKU != "SKU-B" {
			t.Fatalf("unexpected order: %+v", products)
		}
	})

	t.Run("AppendMovement seeds ledger inside a transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC().Truncate(time.Microsecond)

		productID := uuid.NewString()
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			product := domain.Product{
				ID:        productID,
				SKU:       "SKU-1",
				Name:      "Widget",
				Stock:     10,
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repo.CreateProduct(txCtx, product); err != nil {
				return err
			}
			return repo.AppendMovement(txCtx, domain.Movement{
				ID:            uuid.NewString(),
				ProductID:     productID,
				QuantityDelta: 10,
				StockBefore:   0,
				StockAfter:    10,
				Type:          domain.MovementRestock,
				PerformedBy:   "admin",
				CreatedAt:     now,
			})
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM stock_movements WHERE product_id = $1", productID).Scan(&count); err != nil {
			t.Fatalf("query count: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 movement, got %d", count)
		}
	})
}
