package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
)

type DeliveryPointRepository struct {
	store *Store
}

func NewDeliveryPointRepository(store *Store) *DeliveryPointRepository {
	return &DeliveryPointRepository{store: store}
}

func (r *DeliveryPointRepository) Create(ctx context.Context, point *domain.DeliveryPoint) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	now := time.Now().UTC()
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	point.CreatedAt = now
	point.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.points[point.ID] = *point
	return nil
}

func (r *DeliveryPointRepository) FindByID(ctx context.Context, id string) (*domain.DeliveryPoint, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.points[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("delivery point with id %s not found", id))
	}
	return &p, nil
}

func (r *DeliveryPointRepository) Update(ctx context.Context, point *domain.DeliveryPoint) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	previous, ok := r.store.points[point.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("delivery point with id %s not found", point.ID))
	}
	point.FarmerID = previous.FarmerID
	point.CreatedAt = previous.CreatedAt
	point.UpdatedAt = time.Now().UTC()
	r.store.points[point.ID] = *point
	return nil
}

func (r *DeliveryPointRepository) List(ctx context.Context, filter domain.DeliveryPointFilter) ([]domain.DeliveryPoint, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	points := []domain.DeliveryPoint{}
	for _, p := range r.store.points {
		if filter.FarmerID != "" && p.FarmerID != filter.FarmerID {
			continue
		}
		if filter.Zone != "" && p.Zone != filter.Zone {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Name != points[j].Name {
			return points[i].Name < points[j].Name
		}
		return points[i].ID < points[j].ID
	})
	return points, nil
}
