package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
)

type orderResponse struct {
	ID            int             `json:"id"`
	OrderNumber   string          `json:"order_number"`
	ProductID     int             `json:"product_id"`
	Quantity      int             `json:"quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newOrderResponse(order data.Order) orderResponse {
	return orderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		ProductID:     order.ProductID,
		Quantity:      order.Quantity,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

type orderSummaryResponse struct {
	orderResponse
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days"`
	HasReceipt   bool            `json:"has_receipt"`
}

func newOrderSummaryResponse(summary data.OrderSummary) orderSummaryResponse {
	return orderSummaryResponse{
		orderResponse: newOrderResponse(summary.Order),
		ProductName:   summary.ProductName,
		ProductPrice:  summary.ProductPrice,
		DurationDays:  summary.DurationDays,
		HasReceipt:    summary.HasReceipt,
	}
}

type receiptResponse struct {
	ID           int        `json:"id"`
	OrderID      int        `json:"order_id"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	FileSize     int64      `json:"file_size"`
	MimeType     string     `json:"mime_type"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	Status       string     `json:"status"`
	VerifiedBy   *int       `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

func newReceiptResponse(receipt data.Receipt) receiptResponse {
	return receiptResponse{
		ID:           receipt.ID,
		OrderID:      receipt.OrderID,
		Filename:     receipt.Filename,
		OriginalName: receipt.OriginalName,
		FileSize:     receipt.FileSize,
		MimeType:     receipt.MimeType,
		UploadedAt:   receipt.UploadedAt,
		Status:       string(receipt.Status),
		VerifiedBy:   receipt.VerifiedBy,
		VerifiedAt:   receipt.VerifiedAt,
		Notes:        receipt.Notes,
	}
}

type receiptSummaryResponse struct {
	receiptResponse
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	ProductName string          `json:"product_name"`
	OwnerUserID int             `json:"user_id"`
}

func newReceiptSummaryResponse(summary data.ReceiptSummary) receiptSummaryResponse {
	return receiptSummaryResponse{
		receiptResponse: newReceiptResponse(summary.Receipt),
		OrderNumber:     summary.OrderNumber,
		TotalAmount:     summary.TotalAmount,
		Currency:        summary.Currency,
		ProductName:     summary.ProductName,
		OwnerUserID:     summary.OwnerUserID,
	}
}

type trackedOrderResponse struct {
	OrderNumber  string          `json:"order_number"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
}

func newTrackedOrderResponse(tracked data.TrackedOrder) trackedOrderResponse {
	return trackedOrderResponse{
		OrderNumber:  tracked.OrderNumber,
		Status:       string(tracked.Status),
		CreatedAt:    tracked.CreatedAt,
		UpdatedAt:    tracked.UpdatedAt,
		ProductName:  tracked.ProductName,
		ProductPrice: tracked.ProductPrice,
		Currency:     tracked.Currency,
	}
}

type listResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination service.Pagination `json:"pagination"`
}
