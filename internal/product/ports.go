package product

import (
	"context"

	"agrolink/internal/domain"
	"agrolink/internal/storage"
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, id string, caller Requester, patch Patch) (*domain.Product, error)
	Delete(ctx context.Context, id string, caller Requester) error
	AdjustStock(ctx context.Context, id string, caller Requester, delta int) (*domain.Product, error)
}

// Inventory applies stock deltas in a transaction of its own.
type Inventory interface {
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
}

type Repository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	FindByIDForUpdate(ctx context.Context, tx storage.Tx, id string) (*domain.Product, error)
	Update(ctx context.Context, tx storage.Tx, p *domain.Product) error
	IsReferenced(ctx context.Context, tx storage.Tx, id string) (bool, error)
	Delete(ctx context.Context, tx storage.Tx, id string) error
}
