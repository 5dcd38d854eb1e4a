package deliverypoint

import (
	"context"

	"agrolink/internal/domain"
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (*domain.DeliveryPoint, error)
	Update(ctx context.Context, id, requesterID string, patch Patch) (*domain.DeliveryPoint, error)
	Get(ctx context.Context, id string) (*domain.DeliveryPoint, error)
	List(ctx context.Context, filter domain.DeliveryPointFilter) ([]domain.DeliveryPoint, error)
}

type Repository interface {
	Create(ctx context.Context, point *domain.DeliveryPoint) error
	FindByID(ctx context.Context, id string) (*domain.DeliveryPoint, error)
	Update(ctx context.Context, point *domain.DeliveryPoint) error
	List(ctx context.Context, filter domain.DeliveryPointFilter) ([]domain.DeliveryPoint, error)
}
