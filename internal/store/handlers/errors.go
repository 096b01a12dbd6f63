package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

// writeServiceError maps service sentinels onto the HTTP surface.
// Ownership misses on reads and uploads answer not-found on purpose, so
// callers cannot probe which order ids exist.
func writeServiceError(ctx context.Context, w http.ResponseWriter, logger *logging.ZapLogger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrInvalidDecision):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrReceiptNotFound),
		errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDuplicateReceipt),
		errors.Is(err, service.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		logger.ErrorCtx(ctx, "handler error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
