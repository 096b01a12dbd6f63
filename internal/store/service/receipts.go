package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/blobstore"
	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

// Image types the original storefront accepts as payment evidence.
var allowedReceiptExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type ReceiptRepository interface {
	GetOrder(ctx context.Context, orderID int) (data.Order, error)
	InsertReceipt(ctx context.Context, receipt *data.Receipt) error
	GetReceipt(ctx context.Context, receiptID int) (data.Receipt, int, error)
	GetReceiptByFilename(ctx context.Context, filename string) (data.Receipt, int, error)
	GetReceiptByOrder(ctx context.Context, orderID int) (data.Receipt, int, error)
	DeleteReceipt(ctx context.Context, receiptID int) error
	GetReceipts(ctx context.Context, filter data.ReceiptFilter, page data.Page) ([]data.ReceiptSummary, int, error)
}

type BlobStore interface {
	Store(ctx context.Context, filename string, content []byte) error
	Read(ctx context.Context, filename string) ([]byte, error)
	Delete(ctx context.Context, filename string) error
	Exists(ctx context.Context, filename string) (bool, error)
}

type Receipts struct {
	repository ReceiptRepository
	blobs      BlobStore
	notifier   Notifier
	logger     *logging.ZapLogger
}

func NewReceipts(
	repository ReceiptRepository,
	blobs BlobStore,
	notifier Notifier,
	logger *logging.ZapLogger,
) *Receipts {
	return &Receipts{
		repository: repository,
		blobs:      blobs,
		notifier:   notifier,
		logger:     logger,
	}
}

type UploadInput struct {
	OrderID      int
	OriginalName string
	MimeType     string
	Content      []byte
	Notes        string
}

// Upload stores the evidence image and records the receipt row. The
// order_id unique constraint makes the "one receipt per order" check
// atomic; if the row insert fails after the blob was written, the blob
// is removed so no stored bytes are left without a referencing row.
func (r *Receipts) Upload(ctx context.Context, uploaderID int, input UploadInput) (data.Receipt, error) {
	order, err := r.repository.GetOrder(ctx, input.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return data.Receipt{}, ErrOrderNotFound
		default:
			return data.Receipt{}, fmt.Errorf("error getting order: %w", err)
		}
	}
	if order.UserID != uploaderID {
		return data.Receipt{}, ErrNotOwner
	}

	extension := strings.ToLower(filepath.Ext(input.OriginalName))
	if !allowedReceiptExtensions[extension] {
		return data.Receipt{}, ErrUnsupportedFileType
	}

	filename := "receipt-" + uuid.NewString() + extension
	if err := r.blobs.Store(ctx, filename, input.Content); err != nil {
		return data.Receipt{}, fmt.Errorf("error storing receipt blob: %w", err)
	}

	receipt := data.Receipt{
		OrderID:      input.OrderID,
		Filename:     filename,
		OriginalName: input.OriginalName,
		FileSize:     int64(len(input.Content)),
		MimeType:     input.MimeType,
		Status:       data.PendingReceiptStatus,
		Notes:        input.Notes,
	}
	if err := r.repository.InsertReceipt(ctx, &receipt); err != nil {
		r.deleteBlobBestEffort(ctx, filename)
		switch {
		case errors.Is(err, data.ErrUniqueConstraintViolation):
			return data.Receipt{}, ErrDuplicateReceipt
		default:
			return data.Receipt{}, fmt.Errorf("error inserting receipt: %w", err)
		}
	}

	r.logger.InfoCtx(ctx, "receipt uploaded",
		zap.Int("receiptID", receipt.ID),
		zap.String("orderNumber", order.OrderNumber),
	)
	r.notifier.ReceiptUploaded(ctx, order.OrderNumber, receipt.ID)
	return receipt, nil
}

// Delete removes the receipt row and then its blob. A blob that fails to
// delete is logged and left for storage cleanup; the row is already gone
// so correctness is not affected.
func (r *Receipts) Delete(ctx context.Context, receiptID int, requesterID int, isAdmin bool) error {
	receipt, ownerID, err := r.repository.GetReceipt(ctx, receiptID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return ErrReceiptNotFound
		default:
			return fmt.Errorf("error getting receipt: %w", err)
		}
	}
	if ownerID != requesterID && !isAdmin {
		return ErrForbidden
	}

	if err := r.repository.DeleteReceipt(ctx, receiptID); err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return ErrReceiptNotFound
		default:
			return fmt.Errorf("error deleting receipt: %w", err)
		}
	}
	r.deleteBlobBestEffort(ctx, receipt.Filename)
	return nil
}

type ReceiptFile struct {
	Content      []byte
	MimeType     string
	OriginalName string
}

// Fetch serves the stored evidence image to the order owner or an admin.
// A missing file behind an existing row signals storage drift and is
// reported as not found.
func (r *Receipts) Fetch(ctx context.Context, filename string, requesterID int, isAdmin bool) (ReceiptFile, error) {
	receipt, ownerID, err := r.repository.GetReceiptByFilename(ctx, filename)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return ReceiptFile{}, ErrReceiptNotFound
		default:
			return ReceiptFile{}, fmt.Errorf("error getting receipt: %w", err)
		}
	}
	if ownerID != requesterID && !isAdmin {
		return ReceiptFile{}, ErrForbidden
	}

	content, err := r.blobs.Read(ctx, receipt.Filename)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			// Row exists but the file is gone: storage and DB drifted.
			r.logger.WarnCtx(ctx, "receipt blob missing for existing row",
				zap.Int("receiptID", receipt.ID),
				zap.String("filename", receipt.Filename),
			)
			return ReceiptFile{}, ErrReceiptNotFound
		}
		return ReceiptFile{}, fmt.Errorf("error reading receipt blob: %w", err)
	}
	return ReceiptFile{
		Content:      content,
		MimeType:     receipt.MimeType,
		OriginalName: receipt.OriginalName,
	}, nil
}

// FindForOrder returns the order's receipt, or nil when none exists yet.
func (r *Receipts) FindForOrder(ctx context.Context, orderID int) (*data.Receipt, error) {
	receipt, _, err := r.repository.GetReceiptByOrder(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return nil, nil
		default:
			return nil, fmt.Errorf("error getting receipt for order: %w", err)
		}
	}
	return &receipt, nil
}

// List pages through receipts for the admin review queue.
func (r *Receipts) List(
	ctx context.Context,
	filter data.ReceiptFilter,
	page data.Page,
) ([]data.ReceiptSummary, Pagination, error) {
	receipts, total, err := r.repository.GetReceipts(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("error listing receipts: %w", err)
	}
	return receipts, newPagination(page.Number, page.Limit, total), nil
}

func (r *Receipts) deleteBlobBestEffort(ctx context.Context, filename string) {
	if err := r.blobs.Delete(ctx, filename); err != nil {
		r.logger.WarnCtx(ctx, "failed to delete receipt blob",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}
