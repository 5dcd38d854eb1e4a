package usecase

import (
	"context"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/dto"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

// IdempotencyStore binds client request keys to the orders they created.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}

type PlaceOrderUseCase struct {
	placer      OrderPlacer
	orders      OrderReader
	idempotency IdempotencyStore
	retry       retrier
	logger      *zap.Logger
}

// NewPlaceOrderUseCase wires placement with retries. idempotency may be nil,
// in which case Idempotency-Key headers are ignored.
func NewPlaceOrderUseCase(
	placer OrderPlacer,
	orders OrderReader,
	idempotency IdempotencyStore,
	logger *zap.Logger,
	maxRetryAttempts int,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		placer:      placer,
		orders:      orders,
		idempotency: idempotency,
		retry:       newRetrier(maxRetryAttempts, logger),
		logger:      logger,
	}
}

// PlaceOrder places the order once per idempotency key. replayed reports
// that the order was created by an earlier request with the same key.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, key string, in dto.PlaceOrderInput) (order *domain.Order, replayed bool, err error) {
	uc.logger.Info("place order started", zap.Int("itemCount", len(in.Items)), zap.Bool("idempotent", key != ""))

	if key != "" && uc.idempotency != nil {
		orderID, claimed, claimErr := uc.idempotency.Claim(ctx, key)
		if claimErr != nil {
			return nil, false, claimErr
		}
		if !claimed {
			uc.logger.Info("idempotent replay", zap.String("orderId", orderID))
			existing, findErr := uc.orders.FindByID(ctx, orderID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, true, nil
		}

		defer func() {
			bg := context.WithoutCancel(ctx)
			if err != nil {
				if relErr := uc.idempotency.Release(bg, key); relErr != nil {
					uc.logger.Warn("failed to release idempotency key", zap.Error(relErr))
				}
				return
			}
			if cErr := uc.idempotency.Complete(bg, key, order.ID); cErr != nil {
				uc.logger.Warn("failed to complete idempotency key", zap.String("orderId", order.ID), zap.Error(cErr))
			}
		}()
	}

	err = uc.retry.do(ctx, "place order", func() error {
		var placeErr error
		order, placeErr = uc.placer.PlaceOrder(ctx, in)
		return placeErr
	})
	if err != nil {
		return nil, false, err
	}
	return order, false, nil
}
