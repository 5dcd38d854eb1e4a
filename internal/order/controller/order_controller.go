package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"agrolink/internal/domain"
	"agrolink/internal/dto"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/httpapi"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, key string, in dto.PlaceOrderInput) (*domain.Order, bool, error)
}

type FulfillmentUseCase interface {
	Transition(ctx context.Context, in dto.TransitionInput) (*domain.Order, error)
	DeleteCancelledOrder(ctx context.Context, orderID, requesterID string) error
}

type OrderQueries interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Order, error)
	CountUnviewedCancellations(ctx context.Context, userID string) (int, error)
	MarkCancellationsViewed(ctx context.Context, userID string) (int, error)
}

type OrderController struct {
	placement   PlaceOrderUseCase
	fulfillment FulfillmentUseCase
	queries     OrderQueries
	respond     *httpapi.Responder
}

func NewOrderController(
	placement PlaceOrderUseCase,
	fulfillment FulfillmentUseCase,
	queries OrderQueries,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		placement:   placement,
		fulfillment: fulfillment,
		queries:     queries,
		respond:     httpapi.NewResponder(logger),
	}
}

// Routes mounts the order endpoints. Static paths are registered before
// {orderId} so chi matches them first.
func (c *OrderController) Routes(r chi.Router) {
	r.Post("/", c.PlaceOrder)
	r.Get("/mine", c.ListMine)
	r.Get("/farmer", c.ListForFarmer)
	r.Get("/cancellations/count", c.CountCancellations)
	r.Post("/cancellations/viewed", c.MarkCancellationsViewed)
	r.Get("/{orderId}", c.GetOrder)
	r.Put("/{orderId}/status", c.UpdateStatus)
	r.Delete("/{orderId}", c.DeleteOrder)
}

func (c *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.respond.WriteValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	in, err := toPlaceOrderInput(req)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	if caller := httpapi.IdentityFrom(r.Context()); caller.Authenticated() {
		in.UserID = &caller.UserID
	}

	key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
	order, replayed, err := c.placement.PlaceOrder(r.Context(), key, in)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	logger.Info("order placed", zap.String("orderId", order.ID), zap.Bool("replayed", replayed))
	c.respond.WriteJSON(w, status, dto.FromOrder(*order))
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	order, err := c.queries.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, dto.FromOrder(*order))
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	if !httpapi.IdentityFrom(r.Context()).Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.respond.WriteValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.fulfillment.Transition(r.Context(), dto.TransitionInput{
		OrderID: chi.URLParam(r, "orderId"),
		Status:  domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		Reason:  req.Reason,
	})
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, dto.FromOrder(*order))
}

func (c *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	orderID := chi.URLParam(r, "orderId")
	if err := c.fulfillment.DeleteCancelledOrder(r.Context(), orderID, caller.UserID); err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, dto.DeletedResponse{ID: orderID, Deleted: true})
}

func (c *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	c.listFor(w, r, c.queries.ListByUser)
}

func (c *OrderController) ListForFarmer(w http.ResponseWriter, r *http.Request) {
	c.listFor(w, r, c.queries.ListByFarmer)
}

func (c *OrderController) listFor(w http.ResponseWriter, r *http.Request, list func(context.Context, string) ([]domain.Order, error)) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	orders, err := list(r.Context(), caller.UserID)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, dto.FromOrders(orders))
}

func (c *OrderController) CountCancellations(w http.ResponseWriter, r *http.Request) {
	c.countFor(w, r, c.queries.CountUnviewedCancellations)
}

func (c *OrderController) MarkCancellationsViewed(w http.ResponseWriter, r *http.Request) {
	c.countFor(w, r, c.queries.MarkCancellationsViewed)
}

func (c *OrderController) countFor(w http.ResponseWriter, r *http.Request, count func(context.Context, string) (int, error)) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	n, err := count(r.Context(), caller.UserID)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, dto.CountResponse{Count: n})
}

// toPlaceOrderInput parses the logistics selector. Cart and slot rules are
// enforced by the reservation service.
func toPlaceOrderInput(req dto.PlaceOrderRequest) (dto.PlaceOrderInput, error) {
	logistics, err := domain.ParseLogistics(strings.TrimSpace(req.LogisticsMode), req.DeliveryPointID)
	if err != nil {
		return dto.PlaceOrderInput{}, apperrors.NewValidationError("invalid logistics", apperrors.ValidationDetail{
			Field:   "logisticsMode",
			Message: err.Error(),
		})
	}

	items := make([]dto.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, dto.CartItem{ProductID: strings.TrimSpace(item.ProductID), Quantity: item.Quantity})
	}

	return dto.PlaceOrderInput{
		Customer: domain.Customer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		DeliverySlot: domain.DeliverySlot(req.DeliverySlot),
		Logistics:    logistics,
		Notes:        req.Notes,
		Items:        items,
	}, nil
}
