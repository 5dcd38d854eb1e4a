package farmer

import (
	"encoding/json"
	"net/http"

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
	r.Put("/me", c.HandleUpsert)
	r.Get("/{farmerId}", c.HandleGet)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	profiles, err := c.service.List(r.Context())
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, toDTO(p))
	}
	c.respond.WriteJSON(w, http.StatusOK, resp)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	profile, err := c.service.Get(r.Context(), chi.URLParam(r, "farmerId"))
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*profile))
}

func (c *Controller) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.respond.Trace(r)

	caller := httpapi.IdentityFrom(r.Context())
	if !caller.Authenticated() {
		c.respond.WriteUnauthorized(w, traceID)
		return
	}

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.respond.WriteValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	profile, err := c.service.Upsert(r.Context(), UpsertInput{
		FarmerID: caller.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Bio:      req.Bio,
		Website:  req.Website,
	})
	if err != nil {
		c.respond.WriteError(w, traceID, err, logger)
		return
	}
	c.respond.WriteJSON(w, http.StatusOK, toDTO(*profile))
}

func toDTO(p domain.FarmerProfile) ProfileDTO {
	return ProfileDTO{
		FarmerID:  p.FarmerID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Bio:       p.Bio,
		Website:   p.Website,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
