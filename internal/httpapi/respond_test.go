package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "agrolink/internal/errors"
)

func TestResponder_WriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty cart", apperrors.NewEmptyCartError(), http.StatusBadRequest, "EMPTY_CART"},
		{"missing reason", apperrors.NewMissingReasonError(), http.StatusBadRequest, "MISSING_REASON"},
		{"invalid transition", apperrors.NewInvalidTransitionError("delivered", "cancelled"), http.StatusBadRequest, "INVALID_TRANSITION"},
		{"invalid state", apperrors.NewInvalidStateError("not cancelled"), http.StatusBadRequest, "INVALID_STATE"},
		{"product not found", apperrors.NewProductNotFoundError("p-1"), http.StatusBadRequest, "PRODUCT_NOT_FOUND"},
		{"insufficient stock", apperrors.NewInsufficientStockError("p-1", "Tomatoes", 5, 10), http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"not found", apperrors.NewNotFoundError("order not found"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", apperrors.NewForbiddenError("not yours"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", apperrors.NewConflictError("stale"), http.StatusConflict, "CONFLICT"},
		{"deadlock", apperrors.NewDeadlockError("max retries exceeded"), http.StatusConflict, "DEADLOCK"},
		{"timeout", apperrors.NewTimeoutError("slow", nil), http.StatusGatewayTimeout, "TIMEOUT"},
		{"unavailable", apperrors.NewStorageUnavailableError("down", nil), http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{"wrapped", fmt.Errorf("placing order: %w", apperrors.NewConflictError("stale")), http.StatusConflict, "CONFLICT"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	rs := NewResponder(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rs.WriteError(rec, "trace-1", tt.err, zap.NewNop())

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestResponder_InsufficientStockDetails(t *testing.T) {
	rs := NewResponder(zap.NewNop())
	rec := httptest.NewRecorder()

	rs.WriteError(rec, "t", apperrors.NewInsufficientStockError("p-1", "Tomatoes", 5, 10), zap.NewNop())

	var body struct {
		Message string                   `json:"message"`
		Details InsufficientStockDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "insufficient stock for Tomatoes: 5 available, 10 requested", body.Message)
	assert.Equal(t, 5, body.Details.Available)
	assert.Equal(t, 10, body.Details.Requested)
}

func TestIdentityMiddleware(t *testing.T) {
	var got Identity
	handler := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, " user-1 ")
	req.Header.Set(HeaderUserRole, "Admin")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, got.IsAdmin())
	assert.True(t, got.Authenticated())
	assert.False(t, IdentityFrom(req.Context()).Authenticated())
}
