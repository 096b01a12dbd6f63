package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type OrderTrackingService interface {
	Track(ctx context.Context, orderNumber string) (data.TrackedOrder, error)
}

// OrderTrackingHandler is the only unauthenticated endpoint: it serves
// the public order projection by order number.
type OrderTrackingHandler struct {
	service OrderTrackingService
	logger  *logging.ZapLogger
}

func NewOrderTrackingHandler(service OrderTrackingService, logger *logging.ZapLogger) *OrderTrackingHandler {
	return &OrderTrackingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderTrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, "order number required")
		return
	}

	tracked, err := h.service.Track(r.Context(), orderNumber)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	if err := tryWriteResponseJSON(w, http.StatusOK, newTrackedOrderResponse(tracked)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
