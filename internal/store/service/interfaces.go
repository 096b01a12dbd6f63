package service

import "context"

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

// Notifier pushes fire-and-forget events to the admin webhook.
// Implementations must not block the caller.
type Notifier interface {
	ReceiptUploaded(ctx context.Context, orderNumber string, receiptID int)
	ReceiptDecided(ctx context.Context, orderNumber string, receiptID int, decision string)
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func newPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
