package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type AdminReceiptsService interface {
	List(ctx context.Context, filter data.ReceiptFilter, page data.Page) ([]data.ReceiptSummary, service.Pagination, error)
}

// AdminReceiptsHandler serves the verification review queue.
type AdminReceiptsHandler struct {
	service AdminReceiptsService
	logger  *logging.ZapLogger
}

func NewAdminReceiptsHandler(service AdminReceiptsService, logger *logging.ZapLogger) *AdminReceiptsHandler {
	return &AdminReceiptsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AdminReceiptsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	filter := data.ReceiptFilter{
		Status: data.ReceiptStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	summaries, pagination, err := h.service.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	items := make([]receiptSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, newReceiptSummaryResponse(summary))
	}
	response := listResponse[receiptSummaryResponse]{Items: items, Pagination: pagination}
	if err := tryWriteResponseJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
