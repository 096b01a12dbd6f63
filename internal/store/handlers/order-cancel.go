package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type OrderCancelService interface {
	CancelOrder(ctx context.Context, orderID int, userID int) (data.Order, error)
}

type OrderCancelHandler struct {
	service OrderCancelService
	logger  *logging.ZapLogger
}

func NewOrderCancelHandler(service OrderCancelService, logger *logging.ZapLogger) *OrderCancelHandler {
	return &OrderCancelHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	identity, ok := identityFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	orderID, ok := pathInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.service.CancelOrder(r.Context(), orderID, identity.UserID)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	if err := tryWriteResponseJSON(w, http.StatusOK, newOrderResponse(order)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
