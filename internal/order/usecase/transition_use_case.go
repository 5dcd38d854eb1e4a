package usecase

import (
	"context"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/dto"
)

type OrderFulfiller interface {
	Transition(ctx context.Context, in dto.TransitionInput) (*domain.Order, error)
	DeleteCancelledOrder(ctx context.Context, orderID, requesterID string) error
}

type FulfillmentUseCase struct {
	fulfiller OrderFulfiller
	retry     retrier
	logger    *zap.Logger
}

func NewFulfillmentUseCase(fulfiller OrderFulfiller, logger *zap.Logger, maxRetryAttempts int) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		fulfiller: fulfiller,
		retry:     newRetrier(maxRetryAttempts, logger),
		logger:    logger,
	}
}

func (uc *FulfillmentUseCase) Transition(ctx context.Context, in dto.TransitionInput) (*domain.Order, error) {
	uc.logger.Info("order transition started", zap.String("orderId", in.OrderID), zap.String("status", string(in.Status)))

	var order *domain.Order
	err := uc.retry.do(ctx, "transition order", func() error {
		var tErr error
		order, tErr = uc.fulfiller.Transition(ctx, in)
		return tErr
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *FulfillmentUseCase) DeleteCancelledOrder(ctx context.Context, orderID, requesterID string) error {
	return uc.retry.do(ctx, "delete order", func() error {
		return uc.fulfiller.DeleteCancelledOrder(ctx, orderID, requesterID)
	})
}
