package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type OrderCreationService interface {
	CreateOrder(ctx context.Context, userID int, input service.CreateOrderInput) (data.Order, error)
}

type OrderCreationHandler struct {
	service OrderCreationService
	logger  *logging.ZapLogger
}

type orderCreationInput struct {
	ProductID     int    `json:"product_id"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

func NewOrderCreationHandler(service OrderCreationService, logger *logging.ZapLogger) *OrderCreationHandler {
	return &OrderCreationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	identity, ok := identityFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	input, err := decodeJSON[orderCreationInput](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if input.ProductID < 1 {
		writeError(w, http.StatusBadRequest, "valid product id required")
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if len(input.PaymentMethod) > maxMethodLen {
		writeError(w, http.StatusBadRequest, "payment method too long")
		return
	}
	if len(input.Notes) > maxNotesLen {
		writeError(w, http.StatusBadRequest, "notes too long")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), identity.UserID, service.CreateOrderInput{
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	})
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	if err := tryWriteResponseJSON(w, http.StatusCreated, newOrderResponse(order)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
