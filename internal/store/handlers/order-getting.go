package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type OrderGettingService interface {
	GetOrder(ctx context.Context, orderID int, requesterID int, isAdmin bool) (data.Order, error)
}

type OrderReceiptFinder interface {
	FindForOrder(ctx context.Context, orderID int) (*data.Receipt, error)
}

// OrderGettingHandler serves a single order with its receipt embedded
// when one was uploaded.
type OrderGettingHandler struct {
	service  OrderGettingService
	receipts OrderReceiptFinder
	logger   *logging.ZapLogger
}

type orderDetailResponse struct {
	orderResponse
	Receipt *receiptResponse `json:"receipt,omitempty"`
}

func NewOrderGettingHandler(
	service OrderGettingService,
	receipts OrderReceiptFinder,
	logger *logging.ZapLogger,
) *OrderGettingHandler {
	return &OrderGettingHandler{
		service:  service,
		receipts: receipts,
		logger:   logger,
	}
}

func (h *OrderGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.service.GetOrder(r.Context(), orderID, identity.UserID, identity.IsAdmin())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	response := orderDetailResponse{orderResponse: newOrderResponse(order)}
	receipt, err := h.receipts.FindForOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	if receipt != nil {
		receiptResp := newReceiptResponse(*receipt)
		response.Receipt = &receiptResp
	}

	if err := tryWriteResponseJSON(w, http.StatusOK, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
