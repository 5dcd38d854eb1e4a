package farmer

import (
	"context"

	"agrolink/internal/domain"
)

type Service interface {
	Upsert(ctx context.Context, in UpsertInput) (*domain.FarmerProfile, error)
	Get(ctx context.Context, farmerID string) (*domain.FarmerProfile, error)
	List(ctx context.Context) ([]domain.FarmerProfile, error)
}

// Repository stores profiles and serves them to the notification dispatcher
// as contacts.
type Repository interface {
	Upsert(ctx context.Context, profile *domain.FarmerProfile) error
	FindByID(ctx context.Context, farmerID string) (*domain.FarmerProfile, error)
	List(ctx context.Context) ([]domain.FarmerProfile, error)
	FindByFarmerID(ctx context.Context, farmerID string) (*domain.FarmerContact, error)
}
