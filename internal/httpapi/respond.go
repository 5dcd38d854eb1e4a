// Package httpapi holds the response envelope, error mapping and caller
// identity shared by every HTTP controller.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "agrolink/internal/errors"
)

type ErrorResponse struct {
	TraceID   string      `json:"traceId"`
	Status    int         `json:"status"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type InsufficientStockDetails struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

type ProductNotFoundDetails struct {
	ProductIDs []string `json:"productIds"`
}

type Responder struct {
	logger *zap.Logger
}

func NewResponder(logger *zap.Logger) *Responder {
	return &Responder{logger: logger}
}

// Trace starts a request trace: a fresh trace id and a logger carrying it.
func (rs *Responder) Trace(r *http.Request) (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, rs.logger.With(
		zap.String("traceId", traceID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (rs *Responder) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (rs *Responder) WriteValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	rs.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", message, details)
}

func (rs *Responder) WriteUnauthorized(w http.ResponseWriter, traceID string) {
	rs.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "caller identity is required", nil)
}

// WriteError maps a service error onto its HTTP status and code. Unknown
// errors are logged and reported as INTERNAL_ERROR without leaking the cause.
func (rs *Responder) WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		rs.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details)
		return
	}

	if pnf, ok := apperrors.IsProductNotFoundError(err); ok {
		rs.writeError(w, traceID, http.StatusBadRequest, "PRODUCT_NOT_FOUND", pnf.Error(),
			ProductNotFoundDetails{ProductIDs: pnf.ProductIDs})
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		rs.writeError(w, traceID, http.StatusBadRequest, "INSUFFICIENT_STOCK", ise.Error(), InsufficientStockDetails{
			ProductID:   ise.ProductID,
			ProductName: ise.ProductName,
			Available:   ise.Available,
			Requested:   ise.Requested,
		})
		return
	}

	if re, ok := apperrors.IsRuleError(err); ok {
		rs.writeError(w, traceID, http.StatusBadRequest, re.Code, re.Message, nil)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		rs.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		rs.writeError(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		rs.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		logger.Warn("deadlock retries exhausted", zap.Error(err))
		rs.writeError(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsTimeoutError(err); ok {
		logger.Warn("request timed out", zap.Error(err))
		rs.writeError(w, traceID, http.StatusGatewayTimeout, "TIMEOUT", "the operation timed out", nil)
		return
	}

	if _, ok := apperrors.IsStorageUnavailableError(err); ok {
		logger.Error("storage unavailable", zap.Error(err))
		rs.writeError(w, traceID, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage is temporarily unavailable", nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	rs.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func (rs *Responder) writeError(w http.ResponseWriter, traceID string, status int, code, message string, details interface{}) {
	rs.WriteJSON(w, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
