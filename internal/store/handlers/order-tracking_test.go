package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type stubTrackingService struct {
	tracked data.TrackedOrder
	err     error
}

func (s *stubTrackingService) Track(_ context.Context, _ string) (data.TrackedOrder, error) {
	return s.tracked, s.err
}

func newTrackingRouter(service OrderTrackingService) *chi.Mux {
	handler := NewOrderTrackingHandler(service, logging.NewNop())
	router := chi.NewRouter()
	router.Get("/api/orders/track/{orderNumber}", handler.ServeHTTP)
	return router
}

func TestOrderTrackingServesPublicProjection(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	router := newTrackingRouter(&stubTrackingService{
		tracked: data.TrackedOrder{
			OrderNumber:  "BJ123456ABCDE",
			Status:       data.PendingOrderStatus,
			CreatedAt:    now,
			UpdatedAt:    now,
			ProductName:  "Judge Premium",
			ProductPrice: decimal.RequireFromString("49.99"),
			Currency:     "TRY",
		},
	})

	request := httptest.NewRequest(http.MethodGet, "/api/orders/track/BJ123456ABCDE", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "BJ123456ABCDE", body["order_number"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "Judge Premium", body["product_name"])
	// The public projection must never leak buyer columns.
	assert.NotContains(t, body, "user_id")
	assert.NotContains(t, body, "id")
}

func TestOrderTrackingUnknownNumber(t *testing.T) {
	router := newTrackingRouter(&stubTrackingService{err: service.ErrOrderNotFound})

	request := httptest.NewRequest(http.MethodGet, "/api/orders/track/BJ000000XXXXX", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
