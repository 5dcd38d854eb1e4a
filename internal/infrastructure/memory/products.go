package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/storage"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func productNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.products[id]
	if !ok {
		return nil, productNotFound(id)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := []domain.Product{}
	for _, p := range r.store.products {
		if filter.FarmerID != "" && p.FarmerID != filter.FarmerID {
			continue
		}
		if filter.OnlyActive && !p.IsActive {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *ProductRepository) GetStock(ctx context.Context, id string) (int, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}

// FindByIDsForUpdate returns the existing products in ascending id order.
// Holding the transaction already serializes writers.
func (r *ProductRepository) FindByIDsForUpdate(ctx context.Context, tx storage.Tx, ids []string) ([]domain.Product, error) {
	if _, err := r.store.own(ctx, tx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	var products []domain.Product
	seen := make(map[string]bool, len(sorted))
	for _, id := range sorted {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.store.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, tx storage.Tx, id string) (*domain.Product, error) {
	products, err := r.FindByIDsForUpdate(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, productNotFound(id)
	}
	return &products[0], nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, tx storage.Tx, id string, delta int) (int, error) {
	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.adjust(mt, id, delta)
}

func (r *ProductRepository) adjust(mt *memTx, id string, delta int) (int, error) {
	p, ok := r.store.products[id]
	if !ok {
		return 0, productNotFound(id)
	}

	newStock := p.Stock + delta
	if newStock < 0 {
		return 0, apperrors.NewInsufficientStockError(p.ID, p.Name, p.Stock, -delta)
	}

	previous := p
	mt.record(func() { r.store.products[id] = previous })

	p.SetStock(newStock)
	p.UpdatedAt = time.Now().UTC()
	r.store.products[id] = p
	return newStock, nil
}

// BatchAdjust applies adjustments in ascending product id order and returns
// the new stock levels in the caller's order.
func (r *ProductRepository) BatchAdjust(ctx context.Context, tx storage.Tx, adjustments []domain.StockAdjustment) ([]int, error) {
	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order := make([]int, len(adjustments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return adjustments[order[a]].ProductID < adjustments[order[b]].ProductID
	})

	results := make([]int, len(adjustments))
	for _, idx := range order {
		adj := adjustments[idx]
		newStock, err := r.adjust(mt, adj.ProductID, adj.Delta)
		if err != nil {
			return nil, err
		}
		results[idx] = newStock
	}
	return results, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if p.Stock < 0 {
		return apperrors.NewValidationError("stock must be non-negative", apperrors.ValidationDetail{
			Field:   "stock",
			Message: "stock must be non-negative",
		})
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.SetStock(p.Stock)
	p.CreatedAt = now
	p.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.products[p.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("product with id %s already exists", p.ID))
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, tx storage.Tx, p *domain.Product) error {
	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return err
	}
	if p.Stock < 0 {
		return apperrors.NewValidationError("stock must be non-negative", apperrors.ValidationDetail{
			Field:   "stock",
			Message: "stock must be non-negative",
		})
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	previous, ok := r.store.products[p.ID]
	if !ok {
		return productNotFound(p.ID)
	}
	mt.record(func() { r.store.products[p.ID] = previous })

	p.FarmerID = previous.FarmerID
	p.CreatedAt = previous.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.store.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) IsReferenced(ctx context.Context, tx storage.Tx, id string) (bool, error) {
	if _, err := r.store.own(ctx, tx); err != nil {
		return false, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, o := range r.store.orders {
		for _, line := range o.Lines {
			if line.ProductID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *ProductRepository) Delete(ctx context.Context, tx storage.Tx, id string) error {
	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	previous, ok := r.store.products[id]
	if !ok {
		return productNotFound(id)
	}
	mt.record(func() { r.store.products[id] = previous })
	delete(r.store.products, id)
	return nil
}
