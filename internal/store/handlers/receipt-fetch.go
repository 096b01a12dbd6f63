package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type ReceiptFetchService interface {
	Fetch(ctx context.Context, filename string, requesterID int, isAdmin bool) (service.ReceiptFile, error)
}

// ReceiptFetchHandler streams the stored evidence image back to the
// order owner or an admin reviewer.
type ReceiptFetchHandler struct {
	service ReceiptFetchService
	logger  *logging.ZapLogger
}

func NewReceiptFetchHandler(service ReceiptFetchService, logger *logging.ZapLogger) *ReceiptFetchHandler {
	return &ReceiptFetchHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReceiptFetchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	identity, ok := identityFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename required")
		return
	}

	file, err := h.service.Fetch(r.Context(), filename, identity.UserID, identity.IsAdmin())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.OriginalName))
	if _, err := w.Write(file.Content); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing receipt file", zap.Error(err))
	}
}
