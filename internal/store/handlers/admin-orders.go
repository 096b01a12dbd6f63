package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type AdminOrdersService interface {
	ListOrders(ctx context.Context, filter data.OrderFilter, page data.Page) ([]data.OrderSummary, service.Pagination, error)
}

// AdminOrdersHandler pages through every order, optionally filtered by
// status or an order-number search.
type AdminOrdersHandler struct {
	service AdminOrdersService
	logger  *logging.ZapLogger
}

func NewAdminOrdersHandler(service AdminOrdersService, logger *logging.ZapLogger) *AdminOrdersHandler {
	return &AdminOrdersHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AdminOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	filter := data.OrderFilter{
		Status: data.OrderStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	summaries, pagination, err := h.service.ListOrders(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	items := make([]orderSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, newOrderSummaryResponse(summary))
	}
	response := listResponse[orderSummaryResponse]{Items: items, Pagination: pagination}
	if err := tryWriteResponseJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
