package app

import (
	"context"
	"fmt"

	"github.com/santhoshgedare/kavyas-inventory/internal/clock"
	"github.com/santhoshgedare/kavyas-inventory/internal/domain"
)

type ProductRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateProduct(ctx context.Context, product domain.Product) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	AppendMovement(ctx context.Context, movement domain.Movement) error
}

// ProductService provisions the stock records the inventory service
// arbitrates. Initial stock is recorded through the movement ledger so the
// audit trail starts with the first unit.
type ProductService struct {
	repo  ProductRepository
	clock clock.Clock
}

func NewProductService(repo ProductRepository, clk clock.Clock) *ProductService {
	return &ProductService{
		repo:  repo,
		clock: clk,
	}
}

type CreateProductInput struct {
	SKU          string
	Name         string
	InitialStock int
	ReorderLevel int
	CreatedBy    string
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if in.SKU == "" {
		return domain.Product{}, domain.ErrSKURequired
	}
	if in.Name == "" {
		return domain.Product{}, domain.ErrNameRequired
	}
	if in.InitialStock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}
	if in.ReorderLevel < 0 {
		return domain.Product{}, domain.ErrInvalidReorderLevel
	}
	if in.CreatedBy == "" {
		return domain.Product{}, domain.ErrPerformerRequired
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:           newID(),
		SKU:          in.SKU,
		Name:         in.Name,
		Stock:        in.InitialStock,
		Reserved:     0,
		ReorderLevel: in.ReorderLevel,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateProduct(txCtx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		movement := domain.Movement{
			ID:            newID(),
			ProductID:     product.ID,
			QuantityDelta: in.InitialStock,
			StockBefore:   0,
			StockAfter:    in.InitialStock,
			Type:          domain.MovementRestock,
			ReferenceID:   product.ID,
			PerformedBy:   in.CreatedBy,
			Notes:         fmt.Sprintf("initial stock of %d units", in.InitialStock),
			CreatedAt:     now,
		}
		return s.repo.AppendMovement(txCtx, movement)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	return s.repo.GetProduct(ctx, productID)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}
