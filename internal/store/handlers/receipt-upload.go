package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type ReceiptUploadService interface {
	Upload(ctx context.Context, uploaderID int, input service.UploadInput) (data.Receipt, error)
}

type ReceiptUploadHandler struct {
	service       ReceiptUploadService
	maxUploadSize int64
	logger        *logging.ZapLogger
}

func NewReceiptUploadHandler(
	service ReceiptUploadService,
	maxUploadSize int64,
	logger *logging.ZapLogger,
) *ReceiptUploadHandler {
	return &ReceiptUploadHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// ServeHTTP expects a multipart form with a "receipt" file part plus
// order_id and optional notes fields.
func (h *ReceiptUploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	identity, ok := identityFromRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.logger.DebugCtx(r.Context(), "error parsing multipart form", zap.Error(err))
		writeError(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}

	orderID, err := strconv.Atoi(r.FormValue("order_id"))
	if err != nil || orderID < 1 {
		writeError(w, http.StatusBadRequest, "valid order id required")
		return
	}
	notes := r.FormValue("notes")
	if len(notes) > maxNotesLen {
		writeError(w, http.StatusBadRequest, "notes too long")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "receipt file required")
		return
	}
	defer closeBody(r.Context(), file, h.logger)

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error reading uploaded file", zap.Error(err))
		writeError(w, http.StatusBadRequest, "unreadable receipt file")
		return
	}

	receipt, err := h.service.Upload(r.Context(), identity.UserID, service.UploadInput{
		OrderID:      orderID,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Content:      content,
		Notes:        notes,
	})
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}

	if err := tryWriteResponseJSON(w, http.StatusCreated, newReceiptResponse(receipt)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
