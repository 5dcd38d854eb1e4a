package order

import (
	"go.uber.org/zap"

	"agrolink/internal/config"
	"agrolink/internal/order/controller"
	"agrolink/internal/order/service"
	"agrolink/internal/order/usecase"
	"agrolink/internal/storage"
)

// Dependencies are the stores and side channels the order module runs on.
// Idempotency may be nil.
type Dependencies struct {
	TxManager   storage.TransactionManager
	Products    service.ProductRepository
	Orders      service.OrderRepository
	Points      service.DeliveryPointRepository
	Notifier    service.Notifier
	Idempotency usecase.IdempotencyStore
}

func NewModule(deps Dependencies, cfg config.OrderConfig, logger *zap.Logger) *controller.OrderController {
	reservationSvc := service.NewReservationService(
		deps.TxManager,
		deps.Products,
		deps.Orders,
		deps.Points,
		deps.Notifier,
		logger,
		cfg.ReservationTxTimeout,
	)
	fulfillmentSvc := service.NewFulfillmentService(
		deps.TxManager,
		deps.Products,
		deps.Orders,
		deps.Notifier,
		logger,
		cfg.ReservationTxTimeout,
	)
	querySvc := service.NewQueryService(deps.Orders)

	return controller.NewOrderController(
		usecase.NewPlaceOrderUseCase(reservationSvc, deps.Orders, deps.Idempotency, logger, cfg.MaxRetryAttempts),
		usecase.NewFulfillmentUseCase(fulfillmentSvc, logger, cfg.MaxRetryAttempts),
		querySvc,
		logger,
	)
}
