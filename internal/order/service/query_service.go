package service

import (
	"context"

	"agrolink/internal/domain"
)

// QueryService serves the read side of orders.
type QueryService struct {
	orders OrderRepository
}

func NewQueryService(orders OrderRepository) *QueryService {
	return &QueryService{orders: orders}
}

func (s *QueryService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *QueryService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *QueryService) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error) {
	return s.orders.ListByFarmer(ctx, farmerID)
}

func (s *QueryService) CountUnviewedCancellations(ctx context.Context, userID string) (int, error) {
	return s.orders.CountUnviewedCancellations(ctx, userID)
}

func (s *QueryService) MarkCancellationsViewed(ctx context.Context, userID string) (int, error) {
	return s.orders.MarkCancellationsViewed(ctx, userID)
}
