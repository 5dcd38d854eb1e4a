package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/dto"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/storage"
)

type FulfillmentService struct {
	txm       storage.TransactionManager
	products  ProductRepository
	orders    OrderRepository
	notifier  Notifier
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewFulfillmentService(
	txm storage.TransactionManager,
	products ProductRepository,
	orders OrderRepository,
	notifier Notifier,
	logger *zap.Logger,
	txTimeout time.Duration,
) *FulfillmentService {
	return &FulfillmentService{
		txm:       txm,
		products:  products,
		orders:    orders,
		notifier:  notifier,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// Transition moves an order to in.Status. Cancelling restores every line's
// stock in the same transaction as the status change, so the restoration
// happens exactly once per order.
func (s *FulfillmentService) Transition(ctx context.Context, in dto.TransitionInput) (*domain.Order, error) {
	if !in.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, confirmed, preparing, ready, delivered, cancelled",
		})
	}
	cancelling := in.Status == domain.OrderStatusCancelled
	if cancelling && (in.Reason == nil || strings.TrimSpace(*in.Reason) == "") {
		return nil, apperrors.NewMissingReasonError()
	}

	var reason *string
	if cancelling {
		trimmed := strings.TrimSpace(*in.Reason)
		reason = &trimmed
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.txm.BeginTx(txCtx)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orders.FindByIDForUpdate(txCtx, tx, in.OrderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !domain.CanTransition(from, in.Status) {
		s.logger.Warn("illegal status transition",
			zap.String("orderId", order.ID), zap.String("from", string(from)), zap.String("to", string(in.Status)))
		return nil, apperrors.NewInvalidTransitionError(string(from), string(in.Status))
	}

	if cancelling {
		restored, err := s.products.BatchAdjust(txCtx, tx, restorations(order.Lines))
		if err != nil {
			s.logger.Error("failed to restore stock", zap.String("orderId", order.ID), zap.Error(err))
			return nil, err
		}
		s.logger.Debug("stock restored", zap.String("orderId", order.ID), zap.Ints("newStock", restored))
	}

	if err := s.orders.UpdateStatus(txCtx, tx, order.ID, from, in.Status, reason); err != nil {
		s.logger.Warn("status update failed", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	order.Status = in.Status
	order.CancellationReason = reason
	order.CancellationViewed = false
	order.UpdatedAt = time.Now().UTC()

	s.logger.Info("order status changed",
		zap.String("orderId", order.ID), zap.String("from", string(from)), zap.String("to", string(in.Status)))

	if cancelling {
		s.notifier.OrderCancelled(*order)
	}

	return order, nil
}

// DeleteCancelledOrder removes a cancelled order on behalf of the user who
// placed it. Stock was already restored by the cancellation.
func (s *FulfillmentService) DeleteCancelledOrder(ctx context.Context, orderID, requesterID string) error {
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.txm.BeginTx(txCtx)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	order, err := s.orders.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return err
	}
	if !order.PlacedBy(requesterID) {
		return apperrors.NewForbiddenError("only the user who placed the order can delete it")
	}
	if order.Status != domain.OrderStatusCancelled {
		return apperrors.NewInvalidStateError("only cancelled orders can be deleted")
	}

	if err := s.orders.Delete(txCtx, tx, orderID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", orderID), zap.Error(err))
		return err
	}

	s.logger.Info("cancelled order deleted", zap.String("orderId", orderID))
	return nil
}

// restorations turns order lines into positive stock adjustments, one per
// product.
func restorations(lines []domain.OrderLine) []domain.StockAdjustment {
	totals := make(map[string]int, len(lines))
	for _, line := range lines {
		totals[line.ProductID] += line.Quantity
	}
	adjustments := make([]domain.StockAdjustment, 0, len(totals))
	for id, qty := range totals {
		adjustments = append(adjustments, domain.StockAdjustment{ProductID: id, Delta: qty})
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].ProductID < adjustments[j].ProductID })
	return adjustments
}
