package service

import (
	"context"

	"agrolink/internal/domain"
	"agrolink/internal/storage"
)

type ProductRepository interface {
	FindByIDsForUpdate(ctx context.Context, tx storage.Tx, ids []string) ([]domain.Product, error)
	BatchAdjust(ctx context.Context, tx storage.Tx, adjustments []domain.StockAdjustment) ([]int, error)
}

type OrderRepository interface {
	Create(ctx context.Context, tx storage.Tx, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx storage.Tx, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx storage.Tx, id string, from, to domain.OrderStatus, reason *string) error
	Delete(ctx context.Context, tx storage.Tx, id string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error)
	CountUnviewedCancellations(ctx context.Context, userID string) (int, error)
	MarkCancellationsViewed(ctx context.Context, userID string) (int, error)
}

type DeliveryPointRepository interface {
	FindByID(ctx context.Context, id string) (*domain.DeliveryPoint, error)
}

// Notifier receives committed order events. Implementations must not block.
type Notifier interface {
	OrderPlaced(order domain.Order)
	OrderCancelled(order domain.Order)
}
