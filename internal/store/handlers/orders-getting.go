package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type OrderListingService interface {
	ListUserOrders(ctx context.Context, userID int, status data.OrderStatus, page data.Page) ([]data.OrderSummary, service.Pagination, error)
}

// MyOrdersHandler serves the authenticated user's own order history.
type MyOrdersHandler struct {
	service OrderListingService
	logger  *logging.ZapLogger
}

func NewMyOrdersHandler(service OrderListingService, logger *logging.ZapLogger) *MyOrdersHandler {
	return &MyOrdersHandler{
		service: service,
		logger:  logger,
	}
}

func (h *MyOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	identity, ok := identityFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	status := data.OrderStatus(r.URL.Query().Get("status"))
	orders, pagination, err := h.service.ListUserOrders(r.Context(), identity.UserID, status, pageFromQuery(r))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	items := make([]orderSummaryResponse, len(orders))
	for i, order := range orders {
		items[i] = newOrderSummaryResponse(order)
	}
	response := listResponse[orderSummaryResponse]{Items: items, Pagination: pagination}
	if err := tryWriteResponseJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
