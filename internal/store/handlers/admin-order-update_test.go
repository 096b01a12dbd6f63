package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type stubOrderUpdateService struct {
	patch  *data.OrderPatch
	result data.Order
	err    error
}

func (s *stubOrderUpdateService) UpdateOrder(_ context.Context, _ int, patch data.OrderPatch) (data.Order, error) {
	s.patch = &patch
	return s.result, s.err
}

func newOrderUpdateRouter(service AdminOrderUpdateService) *chi.Mux {
	handler := NewAdminOrderUpdateHandler(service, logging.NewNop())
	router := chi.NewRouter()
	router.Put("/api/admin/orders/{id}/status", handler.ServeHTTP)
	return router
}

func putOrderUpdate(router *chi.Mux, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestAdminOrderUpdateNotesOnlyLeavesStatusNil(t *testing.T) {
	stub := &stubOrderUpdateService{result: data.Order{ID: 5, Status: data.PendingOrderStatus}}
	router := newOrderUpdateRouter(stub)

	recorder := putOrderUpdate(router, "/api/admin/orders/5/status", `{"notes":"checked manually"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, stub.patch)
	assert.Nil(t, stub.patch.Status)
	require.NotNil(t, stub.patch.Notes)
	assert.Equal(t, "checked manually", *stub.patch.Notes)
}

func TestAdminOrderUpdateStatusIsValidated(t *testing.T) {
	stub := &stubOrderUpdateService{}
	router := newOrderUpdateRouter(stub)

	recorder := putOrderUpdate(router, "/api/admin/orders/5/status", `{"status":"shipped"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Nil(t, stub.patch)
}

func TestAdminOrderUpdateEmptyPatchRejected(t *testing.T) {
	stub := &stubOrderUpdateService{}
	router := newOrderUpdateRouter(stub)

	recorder := putOrderUpdate(router, "/api/admin/orders/5/status", `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Nil(t, stub.patch)
}

func TestAdminOrderUpdateUnknownFieldRejected(t *testing.T) {
	stub := &stubOrderUpdateService{}
	router := newOrderUpdateRouter(stub)

	recorder := putOrderUpdate(router, "/api/admin/orders/5/status", `{"status":"processing","total_amount":"0"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Nil(t, stub.patch)
}

func TestAdminOrderUpdateIllegalTransitionConflicts(t *testing.T) {
	stub := &stubOrderUpdateService{err: service.ErrInvalidStateTransition}
	router := newOrderUpdateRouter(stub)

	recorder := putOrderUpdate(router, "/api/admin/orders/5/status", `{"status":"completed"}`)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestAdminOrderUpdateInvalidID(t *testing.T) {
	stub := &stubOrderUpdateService{}
	router := newOrderUpdateRouter(stub)

	recorder := putOrderUpdate(router, "/api/admin/orders/abc/status", `{"status":"processing"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Nil(t, stub.patch)
}
