package service

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrOrderNotFound          = errors.New("order not found")
	ErrNotOwner               = errors.New("order belongs to another user")
	ErrInvalidStateTransition = errors.New("invalid order state transition")
	ErrDuplicateReceipt       = errors.New("receipt already uploaded for this order")
	ErrReceiptNotFound        = errors.New("receipt not found")
	ErrInvalidDecision        = errors.New("invalid verification decision")
	ErrUnsupportedFileType    = errors.New("unsupported receipt file type")
	ErrForbidden              = errors.New("operation not allowed")
)
