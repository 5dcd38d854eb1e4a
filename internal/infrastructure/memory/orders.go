package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/storage"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func orderNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
}

func cloneOrder(o domain.Order) domain.Order {
	o.Lines = append([]domain.OrderLine{}, o.Lines...)
	return o
}

func (r *OrderRepository) Create(ctx context.Context, tx storage.Tx, order *domain.Order) error {
	if len(order.Lines) == 0 {
		return apperrors.NewEmptyCartError()
	}
	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.Status = domain.OrderStatusPending
	order.CancellationReason = nil
	order.TotalItems = domain.TotalQuantity(order.Lines)
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Lines {
		order.Lines[i].ID = uuid.NewString()
		order.Lines[i].OrderID = order.ID
		order.Lines[i].CreatedAt = now
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id := order.ID
	mt.record(func() { delete(r.store.orders, id) })
	r.store.orders[id] = cloneOrder(*order)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, orderNotFound(id)
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, tx storage.Tx, id string) (*domain.Order, error) {
	if _, err := r.store.own(ctx, tx); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx storage.Tx, id string, from, to domain.OrderStatus, reason *string) error {
	if !domain.CanTransition(from, to) {
		return apperrors.NewInvalidTransitionError(string(from), string(to))
	}
	if to == domain.OrderStatusCancelled && (reason == nil || strings.TrimSpace(*reason) == "") {
		return apperrors.NewMissingReasonError()
	}
	if to != domain.OrderStatusCancelled {
		reason = nil
	}

	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok {
		return orderNotFound(id)
	}
	if o.Status != from {
		return apperrors.NewConflictError(fmt.Sprintf("order %s is no longer %s", id, from))
	}

	previous := o
	mt.record(func() { r.store.orders[id] = previous })

	o.Status = to
	if reason != nil {
		text := *reason
		o.CancellationReason = &text
	} else {
		o.CancellationReason = nil
	}
	o.CancellationViewed = false
	o.UpdatedAt = time.Now().UTC()
	r.store.orders[id] = o
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, tx storage.Tx, id string) error {
	mt, err := r.store.own(ctx, tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	previous, ok := r.store.orders[id]
	if !ok {
		return orderNotFound(id)
	}
	mt.record(func() { r.store.orders[id] = previous })
	delete(r.store.orders, id)
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, func(o domain.Order) bool { return o.PlacedBy(userID) })
}

func (r *OrderRepository) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error) {
	return r.list(ctx, func(o domain.Order) bool {
		for _, line := range o.Lines {
			if line.FarmerID == farmerID {
				return true
			}
		}
		return false
	})
}

func (r *OrderRepository) list(ctx context.Context, match func(domain.Order) bool) ([]domain.Order, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	orders := []domain.Order{}
	for _, o := range r.store.orders {
		if match(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

func (r *OrderRepository) CountUnviewedCancellations(ctx context.Context, userID string) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, o := range r.store.orders {
		if o.PlacedBy(userID) && o.Status == domain.OrderStatusCancelled && !o.CancellationViewed {
			count++
		}
	}
	return count, nil
}

func (r *OrderRepository) MarkCancellationsViewed(ctx context.Context, userID string) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for id, o := range r.store.orders {
		if o.PlacedBy(userID) && o.Status == domain.OrderStatusCancelled && !o.CancellationViewed {
			o.CancellationViewed = true
			r.store.orders[id] = o
			count++
		}
	}
	return count, nil
}
