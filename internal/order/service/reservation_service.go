package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/dto"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/storage"
)

// maxCartProducts bounds the distinct products of a merged cart.
const maxCartProducts = 100

type ReservationService struct {
	txm       storage.TransactionManager
	products  ProductRepository
	orders    OrderRepository
	points    DeliveryPointRepository
	notifier  Notifier
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewReservationService(
	txm storage.TransactionManager,
	products ProductRepository,
	orders OrderRepository,
	points DeliveryPointRepository,
	notifier Notifier,
	logger *zap.Logger,
	txTimeout time.Duration,
) *ReservationService {
	return &ReservationService{
		txm:       txm,
		products:  products,
		orders:    orders,
		points:    points,
		notifier:  notifier,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// PlaceOrder reserves stock for every cart line and records the order in one
// transaction. Either all lines are reserved and the order exists, or the
// store is left untouched.
func (s *ReservationService) PlaceOrder(ctx context.Context, in dto.PlaceOrderInput) (*domain.Order, error) {
	// Block 1: validations outside the transaction
	items, err := mergeCart(in.Items)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(in); err != nil {
		return nil, err
	}
	if err := s.checkMeetingPoint(ctx, in.Logistics); err != nil {
		return nil, err
	}

	// Block 2: transaction detached from the caller so a client disconnect
	// cannot abort an in-flight commit
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.txm.BeginTx(txCtx)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	// Block 3: lock products in ascending id order and check them
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	locked, err := s.products.FindByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		s.logger.Error("failed to lock products", zap.Error(err))
		return nil, err
	}

	byID := make(map[string]domain.Product, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}

	var missing []string
	for _, id := range ids {
		if p, ok := byID[id]; !ok || !p.IsActive {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		s.logger.Warn("order rejected, products not found", zap.Strings("productIds", missing))
		return nil, apperrors.NewProductNotFoundError(missing...)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	adjustments := make([]domain.StockAdjustment, 0, len(items))
	for _, item := range items {
		p := byID[item.ProductID]
		if p.Stock < item.Quantity {
			s.logger.Warn("order rejected, insufficient stock",
				zap.String("productId", p.ID), zap.Int("available", p.Stock), zap.Int("requested", item.Quantity))
			return nil, apperrors.NewInsufficientStockError(p.ID, p.Name, p.Stock, item.Quantity)
		}
		lines = append(lines, domain.OrderLine{
			ProductID:   p.ID,
			FarmerID:    p.FarmerID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
		})
		adjustments = append(adjustments, domain.StockAdjustment{ProductID: p.ID, Delta: -item.Quantity})
	}

	// Block 4: reserve, record, commit
	if _, err := s.products.BatchAdjust(txCtx, tx, adjustments); err != nil {
		s.logger.Warn("stock reservation failed", zap.Error(err))
		return nil, err
	}

	order := &domain.Order{
		UserID:       in.UserID,
		Customer:     in.Customer,
		DeliverySlot: in.DeliverySlot,
		Logistics:    in.Logistics,
		Notes:        in.Notes,
		Lines:        lines,
	}
	if err := s.orders.Create(txCtx, tx, order); err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.Int("lineCount", len(order.Lines)),
		zap.Int("totalItems", order.TotalItems),
		zap.String("logistics", order.Logistics.String()),
	)

	// Block 5: fire-and-forget notifications
	s.notifier.OrderPlaced(*order)

	return order, nil
}

func (s *ReservationService) checkMeetingPoint(ctx context.Context, logistics domain.Logistics) error {
	pointID, ok := logistics.MeetingPointID()
	if !ok {
		return nil
	}

	point, err := s.points.FindByID(ctx, pointID)
	if err != nil {
		if _, nf := apperrors.IsNotFoundError(err); nf {
			return apperrors.NewValidationError("delivery point not found", apperrors.ValidationDetail{
				Field:   "deliveryPointId",
				Message: "delivery point " + pointID + " does not exist",
			})
		}
		return err
	}
	if !point.IsActive {
		return apperrors.NewValidationError("delivery point is not active", apperrors.ValidationDetail{
			Field:   "deliveryPointId",
			Message: "delivery point " + pointID + " is not active",
		})
	}
	return nil
}

// mergeCart sums quantities of repeated products and returns one item per
// product in ascending id order.
func mergeCart(items []dto.CartItem) ([]dto.CartItem, error) {
	if len(items) == 0 {
		return nil, apperrors.NewEmptyCartError()
	}
	var details []apperrors.ValidationDetail
	totals := make(map[string]int, len(items))
	for idx, item := range items {
		if item.ProductID == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "productId is required",
			})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be a positive integer",
			})
		}
		totals[item.ProductID] += item.Quantity
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}
	if len(totals) > maxCartProducts {
		return nil, apperrors.NewValidationError("too many items", apperrors.ValidationDetail{
			Field:   "items",
			Message: "cart exceeds maximum of " + strconv.Itoa(maxCartProducts) + " distinct products",
		})
	}

	merged := make([]dto.CartItem, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, dto.CartItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

func validateHeader(in dto.PlaceOrderInput) error {
	var details []apperrors.ValidationDetail
	if !in.DeliverySlot.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "deliverySlot",
			Message: "deliverySlot must be one of tue-am, tue-pm, fri-am, fri-pm",
		})
	}
	if in.Logistics.IsZero() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "logisticsMode",
			Message: "logisticsMode is required",
		})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
