package dbrepository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
)

//go:embed sql/insert_receipt.sql
var insertReceiptQuery string

// InsertReceipt persists a new receipt row. The order_id unique
// constraint is what enforces "one receipt per order"; a violation comes
// back as data.ErrUniqueConstraintViolation.
func (db *DBRepository) InsertReceipt(ctx context.Context, receipt *data.Receipt) error {
	err := db.storage.QueryValue(
		ctx,
		insertReceiptQuery,
		[]any{
			receipt.OrderID,
			receipt.Filename,
			receipt.OriginalName,
			receipt.FileSize,
			receipt.MimeType,
			receipt.Notes,
			string(receipt.Status),
		},
		[]any{&receipt.ID, &receipt.UploadedAt},
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_receipt.sql
var selectReceiptQuery string

//go:embed sql/select_receipt_by_filename.sql
var selectReceiptByFilenameQuery string

//go:embed sql/select_receipt_by_order.sql
var selectReceiptByOrderQuery string

func (db *DBRepository) GetReceipt(ctx context.Context, receiptID int) (data.Receipt, int, error) {
	return db.scanReceipt(ctx, selectReceiptQuery, receiptID)
}

func (db *DBRepository) GetReceiptByFilename(ctx context.Context, filename string) (data.Receipt, int, error) {
	return db.scanReceipt(ctx, selectReceiptByFilenameQuery, filename)
}

func (db *DBRepository) GetReceiptByOrder(ctx context.Context, orderID int) (data.Receipt, int, error) {
	return db.scanReceipt(ctx, selectReceiptByOrderQuery, orderID)
}

// scanReceipt reads a receipt row joined with the owning order's user id,
// so callers can authorize without a second query.
func (db *DBRepository) scanReceipt(ctx context.Context, query string, arg any) (data.Receipt, int, error) {
	receipt := data.Receipt{}
	ownerID := 0
	err := db.storage.QueryValue(
		ctx,
		query,
		[]any{arg},
		[]any{
			&receipt.ID,
			&receipt.OrderID,
			&receipt.Filename,
			&receipt.OriginalName,
			&receipt.FileSize,
			&receipt.MimeType,
			&receipt.UploadedAt,
			&receipt.Status,
			&receipt.VerifiedBy,
			&receipt.VerifiedAt,
			&receipt.Notes,
			&ownerID,
		},
	)
	if err != nil {
		return data.Receipt{}, 0, handleSQLError(err)
	}
	return receipt, ownerID, nil
}

//go:embed sql/delete_receipt.sql
var deleteReceiptQuery string

func (db *DBRepository) DeleteReceipt(ctx context.Context, receiptID int) error {
	tag, err := db.storage.Exec(ctx, deleteReceiptQuery, receiptID)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

//go:embed sql/set_receipt_decision.sql
var setReceiptDecisionQuery string

// SetReceiptDecision records the admin verdict along with the verifier
// identity and decision time.
func (db *DBRepository) SetReceiptDecision(
	ctx context.Context,
	receiptID int,
	status data.ReceiptStatus,
	verifiedBy int,
	notes string,
) error {
	tag, err := db.storage.Exec(ctx, setReceiptDecisionQuery, receiptID, string(status), verifiedBy, notes)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

//go:embed sql/select_unreconciled_receipts.sql
var selectUnreconciledReceiptsQuery string

// GetUnreconciledReceipts finds verified receipts whose order is still
// pending. Such pairs are the recoverable inconsistency the reconciler
// repairs by re-running the advance step.
func (db *DBRepository) GetUnreconciledReceipts(ctx context.Context, limit int) ([]data.Receipt, error) {
	rows, err := db.storage.Query(ctx, selectUnreconciledReceiptsQuery, limit)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.Receipt, 0)
	for rows.Next() {
		var receipt data.Receipt
		if err := rows.Scan(&receipt.ID, &receipt.OrderID); err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

const receiptSummaryColumns = `r.id, r.order_id, r.filename, r.original_name, r.file_size, r.mime_type,
       r.uploaded_at, r.status, r.verified_by, r.verified_at, COALESCE(r.notes, ''),
       o.order_number, o.total_amount, o.currency, p.name, o.user_id`

// GetReceipts lists receipts joined with their orders for the admin
// review queue, newest uploads first.
func (db *DBRepository) GetReceipts(
	ctx context.Context,
	filter data.ReceiptFilter,
	page data.Page,
) ([]data.ReceiptSummary, int, error) {
	base := `FROM receipts r
JOIN orders o ON o.id = r.order_id
JOIN products p ON p.id = o.product_id`

	conditions := make([]string, 0)
	args := make([]any, 0)

	if filter.Status != data.NullReceiptStatus {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "r.status = "+placeholder(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := placeholder(len(args))
		conditions = append(conditions, fmt.Sprintf("(o.order_number ILIKE %s OR r.original_name ILIKE %s)", p, p))
	}

	where := buildConditions(conditions)

	var total int
	err := db.storage.QueryValue(ctx, "SELECT COUNT(*) "+base+where, args, []any{&total})
	if err != nil {
		return nil, 0, handleSQLError(err)
	}

	query := fmt.Sprintf(
		"SELECT %s %s%s ORDER BY r.uploaded_at DESC LIMIT %s OFFSET %s",
		receiptSummaryColumns,
		base,
		where,
		placeholder(len(args)+1),
		placeholder(len(args)+2),
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := db.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.ReceiptSummary, 0)
	for rows.Next() {
		var summary data.ReceiptSummary
		err := rows.Scan(
			&summary.ID,
			&summary.OrderID,
			&summary.Filename,
			&summary.OriginalName,
			&summary.FileSize,
			&summary.MimeType,
			&summary.UploadedAt,
			&summary.Status,
			&summary.VerifiedBy,
			&summary.VerifiedAt,
			&summary.Notes,
			&summary.OrderNumber,
			&summary.TotalAmount,
			&summary.Currency,
			&summary.ProductName,
			&summary.OwnerUserID,
		)
		if err != nil {
			return nil, 0, handleSQLError(err)
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, handleSQLError(err)
	}
	return result, total, nil
}
