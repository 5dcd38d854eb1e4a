package farmer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrolink/internal/httpapi"
	"agrolink/internal/infrastructure/memory"
)

func newTestRouter() http.Handler {
	ctrl := NewModule(memory.NewFarmerRepository(memory.NewStore()), zap.NewNop())
	r := chi.NewRouter()
	r.Use(httpapi.IdentityMiddleware)
	r.Route("/farmers", ctrl.Routes)
	return r
}

func TestController_UpsertOwnProfileThenGet(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/farmers/me",
		strings.NewReader(`{"name":"Finca Sol","email":"sol@example.com","location":"Valencia"}`))
	req.Header.Set(httpapi.HeaderUserID, "farmer-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var saved ProfileDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "farmer-1", saved.FarmerID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/farmers/farmer-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/farmers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var all []ProfileDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestController_UpsertRequiresIdentity(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/farmers/me", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestController_UpsertRejectsBadBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/farmers/me", strings.NewReader(`{"name":`))
	req.Header.Set(httpapi.HeaderUserID, "farmer-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestController_GetUnknown(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/farmers/nobody", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
