package handlers

import (
	"context"
	"net/http"

	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type ReceiptDeleteService interface {
	Delete(ctx context.Context, receiptID int, requesterID int, isAdmin bool) error
}

type ReceiptDeleteHandler struct {
	service ReceiptDeleteService
	logger  *logging.ZapLogger
}

func NewReceiptDeleteHandler(service ReceiptDeleteService, logger *logging.ZapLogger) *ReceiptDeleteHandler {
	return &ReceiptDeleteHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReceiptDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	identity, ok := identityFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	receiptID, ok := pathInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	if err := h.service.Delete(r.Context(), receiptID, identity.UserID, identity.IsAdmin()); err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
