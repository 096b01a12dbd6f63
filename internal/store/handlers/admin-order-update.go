package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type AdminOrderUpdateService interface {
	UpdateOrder(ctx context.Context, orderID int, patch data.OrderPatch) (data.Order, error)
}

type AdminOrderUpdateHandler struct {
	service AdminOrderUpdateService
	logger  *logging.ZapLogger
}

type orderUpdateRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func NewAdminOrderUpdateHandler(service AdminOrderUpdateService, logger *logging.ZapLogger) *AdminOrderUpdateHandler {
	return &AdminOrderUpdateHandler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP applies a sparse patch: only fields present in the request
// body are written, so sending notes alone never touches the status.
func (h *AdminOrderUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	orderID, ok := pathInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	request, err := decodeJSON[orderUpdateRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error parsing request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if request.Status == nil && request.Notes == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if request.Notes != nil && len(*request.Notes) > maxNotesLen {
		writeError(w, http.StatusBadRequest, "notes too long")
		return
	}

	var patch data.OrderPatch
	if request.Status != nil {
		status := data.OrderStatus(*request.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		patch.Status = &status
	}
	patch.Notes = request.Notes

	order, err := h.service.UpdateOrder(r.Context(), orderID, patch)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	if err := tryWriteResponseJSON(w, http.StatusOK, newOrderResponse(order)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
