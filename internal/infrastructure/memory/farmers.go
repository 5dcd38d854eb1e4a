package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
)

type FarmerRepository struct {
	store *Store
}

func NewFarmerRepository(store *Store) *FarmerRepository {
	return &FarmerRepository{store: store}
}

func farmerNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("profile for farmer %s not found", id))
}

// Upsert creates the profile or replaces every field but CreatedAt.
func (r *FarmerRepository) Upsert(ctx context.Context, profile *domain.FarmerProfile) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	now := time.Now().UTC()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	profile.CreatedAt = now
	if previous, ok := r.store.farmers[profile.FarmerID]; ok {
		profile.CreatedAt = previous.CreatedAt
	}
	profile.UpdatedAt = now
	r.store.farmers[profile.FarmerID] = *profile
	return nil
}

func (r *FarmerRepository) FindByID(ctx context.Context, farmerID string) (*domain.FarmerProfile, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.farmers[farmerID]
	if !ok {
		return nil, farmerNotFound(farmerID)
	}
	return &p, nil
}

func (r *FarmerRepository) List(ctx context.Context) ([]domain.FarmerProfile, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profiles := make([]domain.FarmerProfile, 0, len(r.store.farmers))
	for _, p := range r.store.farmers {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name != profiles[j].Name {
			return profiles[i].Name < profiles[j].Name
		}
		return profiles[i].FarmerID < profiles[j].FarmerID
	})
	return profiles, nil
}

// FindByFarmerID returns the notification contact taken from the profile.
func (r *FarmerRepository) FindByFarmerID(ctx context.Context, farmerID string) (*domain.FarmerContact, error) {
	p, err := r.FindByID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	contact := p.Contact()
	return &contact, nil
}
