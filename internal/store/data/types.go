package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	NullOrderStatus      = OrderStatus("")
	PendingOrderStatus   = OrderStatus("pending")
	ProcessingStatus     = OrderStatus("processing")
	CompletedOrderStatus = OrderStatus("completed")
	CancelledOrderStatus = OrderStatus("cancelled")
)

func (s OrderStatus) Valid() bool {
	switch s {
	case PendingOrderStatus, ProcessingStatus, CompletedOrderStatus, CancelledOrderStatus:
		return true
	default:
		return false
	}
}

type ReceiptStatus string

const (
	NullReceiptStatus     = ReceiptStatus("")
	PendingReceiptStatus  = ReceiptStatus("pending")
	VerifiedReceiptStatus = ReceiptStatus("verified")
	RejectedReceiptStatus = ReceiptStatus("rejected")
)

func (s ReceiptStatus) Valid() bool {
	switch s {
	case PendingReceiptStatus, VerifiedReceiptStatus, RejectedReceiptStatus:
		return true
	default:
		return false
	}
}

// UnlimitedStock marks a product that is never depleted.
const UnlimitedStock = -1

type Product struct {
	ID            int
	Name          string
	Price         decimal.Decimal
	Currency      string
	DurationDays  int
	StockQuantity int
	IsActive      bool
}

type Order struct {
	ID            int
	UserID        int
	ProductID     int
	OrderNumber   string
	Quantity      int
	TotalAmount   decimal.Decimal
	Currency      string
	Status        OrderStatus
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderSummary is an order row joined with catalog columns for listings.
type OrderSummary struct {
	Order
	ProductName  string
	ProductPrice decimal.Decimal
	DurationDays int
	HasReceipt   bool
}

// OrderPatch carries the sparse admin update: nil fields keep their
// previous value.
type OrderPatch struct {
	Status *OrderStatus
	Notes  *string
}

type Receipt struct {
	ID           int
	OrderID      int
	Filename     string
	OriginalName string
	FileSize     int64
	MimeType     string
	UploadedAt   time.Time
	Status       ReceiptStatus
	VerifiedBy   *int
	VerifiedAt   *time.Time
	Notes        string
}

// ReceiptSummary is a receipt row joined with its order for the admin
// review queue.
type ReceiptSummary struct {
	Receipt
	OrderNumber string
	TotalAmount decimal.Decimal
	Currency    string
	ProductName string
	OwnerUserID int
}

// TrackedOrder is the public projection served to unauthenticated
// trackers. It must never carry user identifying columns.
type TrackedOrder struct {
	OrderNumber  string
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ProductName  string
	ProductPrice decimal.Decimal
	Currency     string
}

type OrderFilter struct {
	UserID int
	Status OrderStatus
	Search string
}

type ReceiptFilter struct {
	Status ReceiptStatus
	Search string
}

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
