package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type ReceiptVerifyService interface {
	Decide(ctx context.Context, receiptID int, verifierID int, decision data.ReceiptStatus, notes string) (data.Receipt, error)
}

// ReceiptVerifyHandler records the admin verdict on an uploaded receipt.
type ReceiptVerifyHandler struct {
	service ReceiptVerifyService
	logger  *logging.ZapLogger
}

type receiptVerifyRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func NewReceiptVerifyHandler(service ReceiptVerifyService, logger *logging.ZapLogger) *ReceiptVerifyHandler {
	return &ReceiptVerifyHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReceiptVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	request, err := decodeJSON[receiptVerifyRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error parsing request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(request.Notes) > maxNotesLen {
		writeError(w, http.StatusBadRequest, "notes too long")
		return
	}

	receipt, err := h.service.Decide(
		r.Context(),
		receiptID,
		identity.UserID,
		data.ReceiptStatus(request.Status),
		request.Notes,
	)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	if err := tryWriteResponseJSON(w, http.StatusOK, newReceiptResponse(receipt)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
