package deliverypoint

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
	ctrl := NewModule(memory.NewDeliveryPointRepository(memory.NewStore()), zap.NewNop())
	r := chi.NewRouter()
	r.Use(httpapi.IdentityMiddleware)
	r.Route("/delivery-points", ctrl.Routes)
	return r
}

func TestController_CreateAndGet(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/delivery-points",
		strings.NewReader(`{"name":"Market","address":"Main 1","zone":"north"}`))
	req.Header.Set(httpapi.HeaderUserID, "farmer-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created DeliveryPointDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "farmer-1", created.FarmerID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/delivery-points/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestController_CreateRequiresIdentity(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/delivery-points", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestController_GetUnknown(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/delivery-points/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestController_ListRejectsBadFlag(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/delivery-points?activeOnly=maybe", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
