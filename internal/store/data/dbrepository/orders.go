package dbrepository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
)

//go:embed sql/insert_order.sql
var insertOrderQuery string

// InsertOrder persists a new order and fills the generated id and
// timestamps back into it.
func (db *DBRepository) InsertOrder(ctx context.Context, order *data.Order) error {
	err := db.storage.QueryValue(
		ctx,
		insertOrderQuery,
		[]any{
			order.UserID,
			order.ProductID,
			order.OrderNumber,
			order.Quantity,
			order.TotalAmount,
			order.Currency,
			string(order.Status),
			order.PaymentMethod,
			order.Notes,
		},
		[]any{&order.ID, &order.CreatedAt, &order.UpdatedAt},
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_order.sql
var selectOrderQuery string

func (db *DBRepository) GetOrder(ctx context.Context, orderID int) (data.Order, error) {
	order := data.Order{}
	err := db.storage.QueryValue(
		ctx,
		selectOrderQuery,
		[]any{orderID},
		[]any{
			&order.ID,
			&order.UserID,
			&order.ProductID,
			&order.OrderNumber,
			&order.Quantity,
			&order.TotalAmount,
			&order.Currency,
			&order.Status,
			&order.PaymentMethod,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		},
	)
	if err != nil {
		return data.Order{}, handleSQLError(err)
	}
	return order, nil
}

//go:embed sql/advance_order.sql
var advanceOrderQuery string

// AdvanceOrderToProcessing moves a pending order forward and reports
// whether a row actually changed. Zero rows means the order was not
// pending (or does not exist) and the caller decides what that means.
func (db *DBRepository) AdvanceOrderToProcessing(ctx context.Context, orderID int) (bool, error) {
	tag, err := db.storage.Exec(ctx, advanceOrderQuery, orderID)
	if err != nil {
		return false, handleSQLError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateOrder applies a sparse patch: only non-nil fields are written,
// everything else keeps its previous value.
func (db *DBRepository) UpdateOrder(ctx context.Context, orderID int, patch data.OrderPatch) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{orderID}

	if patch.Status != nil {
		args = append(args, string(*patch.Status))
		setClauses = append(setClauses, "status = "+placeholder(len(args)))
	}
	if patch.Notes != nil {
		args = append(args, *patch.Notes)
		setClauses = append(setClauses, "notes = "+placeholder(len(args)))
	}

	query := "UPDATE orders SET " + strings.Join(setClauses, ", ") + " WHERE id = $1"
	tag, err := db.storage.Exec(ctx, query, args...)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

const orderSummaryColumns = `o.id, o.user_id, o.product_id, o.order_number, o.quantity, o.total_amount,
       o.currency, o.status, COALESCE(o.payment_method, ''), COALESCE(o.notes, ''),
       o.created_at, o.updated_at, p.name, p.price, p.duration_days,
       r.id IS NOT NULL`

// GetOrders lists orders joined with catalog columns and a has-receipt
// flag, newest first. Filter fields are optional; the query is assembled
// the same way for the user listing and the admin listing.
func (db *DBRepository) GetOrders(
	ctx context.Context,
	filter data.OrderFilter,
	page data.Page,
) ([]data.OrderSummary, int, error) {
	base := `FROM orders o
JOIN products p ON p.id = o.product_id
LEFT JOIN receipts r ON r.order_id = o.id`

	conditions := make([]string, 0)
	args := make([]any, 0)

	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		conditions = append(conditions, "o.user_id = "+placeholder(len(args)))
	}
	if filter.Status != data.NullOrderStatus {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "o.status = "+placeholder(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, "o.order_number ILIKE "+placeholder(len(args)))
	}

	where := buildConditions(conditions)

	var total int
	err := db.storage.QueryValue(ctx, "SELECT COUNT(*) "+base+where, args, []any{&total})
	if err != nil {
		return nil, 0, handleSQLError(err)
	}

	query := fmt.Sprintf(
		"SELECT %s %s%s ORDER BY o.created_at DESC LIMIT %s OFFSET %s",
		orderSummaryColumns,
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

	result := make([]data.OrderSummary, 0)
	for rows.Next() {
		var summary data.OrderSummary
		err := rows.Scan(
			&summary.ID,
			&summary.UserID,
			&summary.ProductID,
			&summary.OrderNumber,
			&summary.Quantity,
			&summary.TotalAmount,
			&summary.Currency,
			&summary.Status,
			&summary.PaymentMethod,
			&summary.Notes,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.ProductName,
			&summary.ProductPrice,
			&summary.DurationDays,
			&summary.HasReceipt,
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

//go:embed sql/track_order.sql
var trackOrderQuery string

// TrackOrder returns the public projection of an order. The query joins
// the catalog for product columns but deliberately never touches users.
func (db *DBRepository) TrackOrder(ctx context.Context, orderNumber string) (data.TrackedOrder, error) {
	db.logger.DebugCtx(ctx, "tracking order", zap.String("orderNumber", orderNumber))
	tracked := data.TrackedOrder{}
	err := db.storage.QueryValue(
		ctx,
		trackOrderQuery,
		[]any{orderNumber},
		[]any{
			&tracked.OrderNumber,
			&tracked.Status,
			&tracked.CreatedAt,
			&tracked.UpdatedAt,
			&tracked.ProductName,
			&tracked.ProductPrice,
			&tracked.Currency,
		},
	)
	if err != nil {
		return data.TrackedOrder{}, handleSQLError(err)
	}
	return tracked, nil
}
