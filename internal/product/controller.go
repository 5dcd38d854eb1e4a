package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"agrolink/internal/domain"
	apperrors "agrolink/internal/errors"
	"agrolink/internal/httpapi"
)

type Controller struct {
	service Service
	respond *httpapi.Responder
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		respond: httpapi.NewResponder(logger),
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Get("/", c.HandleList)
	r.Post("/", c.HandleCreate)
	r.Get("/{productId}", c.HandleGet)
	r.Put("/{productId}", c.HandleUpdate)
	r.Delete("/{productId}", c.HandleDelete)
	r.Post("/{productId}/stock", c.HandleAdjustStock)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	q := r.URL.Query()
	filter := domain.ProductFilter{FarmerID: q.Get("farmerId")}
	if raw := q.Get("onlyActive"); raw != "" {
		onlyActive, err := strconv.ParseBool(raw)
		if err != nil {
			c.respond.WriteValidationError(w, traceID, "invalid onlyActive", apperrors.ValidationDetail{
				Field:   "onlyActive",
				Message: "onlyActive must be a boolean",
			})
			return
		}
		filter.OnlyActive = onlyActive
	}

	products, err := c.service.List(r.Context(), filter)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, toDTO(p))
	}
	c.respond.WriteJSON(w, http.StatusOK, resp)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	p, err := c.service.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*p))
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req CreateProductRequest
	if !c.decode(w, r, traceID, logger, &req) {
		return
	}

	p, err := c.service.Create(r.Context(), CreateInput{
		FarmerID:      caller.UserID,
		Name:          req.Name,
		Category:      req.Category,
		PriceRange:    req.PriceRange,
		HarvestWindow: req.HarvestWindow,
		Location:      req.Location,
		ImageURL:      req.ImageURL,
		Stock:         req.Stock,
		IsActive:      req.IsActive,
	})
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusCreated, toDTO(*p))
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req UpdateProductRequest
	if !c.decode(w, r, traceID, logger, &req) {
		return
	}

	p, err := c.service.Update(r.Context(), chi.URLParam(r, "productId"), requester(caller), Patch(req))
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*p))
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	if err := c.service.Delete(r.Context(), chi.URLParam(r, "productId"), requester(caller)); err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleAdjustStock(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req AdjustStockRequest
	if !c.decode(w, r, traceID, logger, &req) {
		return
	}

	p, err := c.service.AdjustStock(r.Context(), chi.URLParam(r, "productId"), requester(caller), req.Delta)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*p))
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.respond.WriteValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func requester(id httpapi.Identity) Requester {
	return Requester{ID: id.UserID, Admin: id.IsAdmin()}
}

func toDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		FarmerID:      p.FarmerID,
		Name:          p.Name,
		Category:      p.Category,
		PriceRange:    p.PriceRange,
		HarvestWindow: p.HarvestWindow,
		Location:      p.Location,
		ImageURL:      p.ImageURL,
		Stock:         p.Stock,
		Availability:  string(p.Availability),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
