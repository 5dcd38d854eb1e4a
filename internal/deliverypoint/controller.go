package deliverypoint

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
	r.Get("/{pointId}", c.HandleGet)
	r.Put("/{pointId}", c.HandleUpdate)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	q := r.URL.Query()
	filter := domain.DeliveryPointFilter{
		FarmerID: q.Get("farmerId"),
		Zone:     q.Get("zone"),
	}
	if raw := q.Get("activeOnly"); raw != "" {
		activeOnly, err := strconv.ParseBool(raw)
		if err != nil {
			c.respond.WriteValidationError(w, traceID, "invalid activeOnly", apperrors.ValidationDetail{
				Field:   "activeOnly",
				Message: "activeOnly must be a boolean",
			})
			return
		}
		filter.ActiveOnly = activeOnly
	}

	points, err := c.service.List(r.Context(), filter)
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]DeliveryPointDTO, 0, len(points))
	for _, p := range points {
		resp = append(resp, toDTO(p))
	}
	c.respond.WriteJSON(w, http.StatusOK, resp)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	point, err := c.service.Get(r.Context(), chi.URLParam(r, "pointId"))
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*point))
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.respond.WriteValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	point, err := c.service.Create(r.Context(), CreateInput{
		FarmerID:  caller.UserID,
		Name:      req.Name,
		Address:   req.Address,
		Zone:      req.Zone,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  req.IsActive,
	})
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusCreated, toDTO(*point))
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.respond.WriteValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	point, err := c.service.Update(r.Context(), chi.URLParam(r, "pointId"), caller.UserID, Patch(req))
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*point))
}

func toDTO(p domain.DeliveryPoint) DeliveryPointDTO {
	return DeliveryPointDTO{
		ID:        p.ID,
		FarmerID:  p.FarmerID,
		Name:      p.Name,
		Address:   p.Address,
		Zone:      p.Zone,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
