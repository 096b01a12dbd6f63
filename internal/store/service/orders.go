package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
	"github.com/BYJDG/byjudge-main1/pkg/ordernum"
)

type OrderRepository interface {
	GetProductForUpdate(ctx context.Context, productID int) (data.Product, error)
	AdjustProductStock(ctx context.Context, productID int, delta int) error
	InsertOrder(ctx context.Context, order *data.Order) error
	GetOrder(ctx context.Context, orderID int) (data.Order, error)
	AdvanceOrderToProcessing(ctx context.Context, orderID int) (bool, error)
	UpdateOrder(ctx context.Context, orderID int, patch data.OrderPatch) error
	GetOrders(ctx context.Context, filter data.OrderFilter, page data.Page) ([]data.OrderSummary, int, error)
}

type Orders struct {
	transactionManager TransactionManager
	repository         OrderRepository
	logger             *logging.ZapLogger
}

func NewOrders(
	transactionManager TransactionManager,
	repository OrderRepository,
	logger *logging.ZapLogger,
) *Orders {
	return &Orders{
		transactionManager: transactionManager,
		repository:         repository,
		logger:             logger,
	}
}

type CreateOrderInput struct {
	ProductID     int
	Quantity      int
	PaymentMethod string
	Notes         string
}

// CreateOrder places an order against an active product. The stock check
// and decrement run inside one transaction holding the product row lock,
// so two buyers cannot both take the last unit. Price and currency are
// copied onto the order and never recomputed afterwards.
func (o *Orders) CreateOrder(ctx context.Context, userID int, input CreateOrderInput) (data.Order, error) {
	if input.Quantity < 1 {
		return data.Order{}, ErrInvalidQuantity
	}

	var order data.Order
	err := o.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		product, err := o.repository.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				return ErrProductNotFound
			default:
				return fmt.Errorf("error getting product: %w", err)
			}
		}
		if !product.IsActive {
			return ErrProductNotFound
		}
		if product.StockQuantity != data.UnlimitedStock && product.StockQuantity < input.Quantity {
			return ErrInsufficientStock
		}

		order = data.Order{
			UserID:        userID,
			ProductID:     product.ID,
			Quantity:      input.Quantity,
			TotalAmount:   product.Price.Mul(decimal.NewFromInt(int64(input.Quantity))),
			Currency:      product.Currency,
			Status:        data.PendingOrderStatus,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
		}

		if err := o.insertWithFreshNumber(ctx, &order); err != nil {
			return err
		}

		if product.StockQuantity != data.UnlimitedStock {
			if err := o.repository.AdjustProductStock(ctx, product.ID, -input.Quantity); err != nil {
				return fmt.Errorf("error decrementing stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return data.Order{}, err //nolint:wrapcheck // unnecessary
	}

	o.logger.InfoCtx(ctx, "order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.Int("userID", userID),
		zap.Int("productID", order.ProductID),
	)
	return order, nil
}

// insertWithFreshNumber generates the order number and retries the
// insert once with a new number if it collides with an existing one.
func (o *Orders) insertWithFreshNumber(ctx context.Context, order *data.Order) error {
	for attempt := 0; attempt < 2; attempt++ {
		number, err := ordernum.Generate()
		if err != nil {
			return fmt.Errorf("error generating order number: %w", err)
		}
		order.OrderNumber = number

		err = o.repository.InsertOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, data.ErrUniqueConstraintViolation) {
			return fmt.Errorf("error inserting order: %w", err)
		}
		o.logger.WarnCtx(ctx, "order number collision, regenerating", zap.String("orderNumber", number))
	}
	return fmt.Errorf("error inserting order: %w", data.ErrUniqueConstraintViolation)
}

// CancelOrder terminates a pending order and gives its quantity back to
// finite stock. The status change and the restoration share a
// transaction so a crash cannot leave stock permanently short.
func (o *Orders) CancelOrder(ctx context.Context, orderID int, userID int) (data.Order, error) {
	var order data.Order
	err := o.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.repository.GetOrder(ctx, orderID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				return ErrOrderNotFound
			default:
				return fmt.Errorf("error getting order: %w", err)
			}
		}
		if order.UserID != userID {
			return ErrNotOwner
		}
		if order.Status != data.PendingOrderStatus {
			return ErrInvalidStateTransition
		}

		cancelled := data.CancelledOrderStatus
		if err := o.repository.UpdateOrder(ctx, orderID, data.OrderPatch{Status: &cancelled}); err != nil {
			return fmt.Errorf("error cancelling order: %w", err)
		}
		order.Status = cancelled

		return o.restoreStock(ctx, order)
	})
	if err != nil {
		return data.Order{}, err //nolint:wrapcheck // unnecessary
	}

	o.logger.InfoCtx(ctx, "order cancelled", zap.String("orderNumber", order.OrderNumber))
	return order, nil
}

func (o *Orders) restoreStock(ctx context.Context, order data.Order) error {
	product, err := o.repository.GetProductForUpdate(ctx, order.ProductID)
	if err != nil {
		return fmt.Errorf("error getting product for stock restore: %w", err)
	}
	if product.StockQuantity == data.UnlimitedStock {
		return nil
	}
	if err := o.repository.AdjustProductStock(ctx, order.ProductID, order.Quantity); err != nil {
		return fmt.Errorf("error restoring stock: %w", err)
	}
	return nil
}

// AdvanceToProcessing moves a pending order forward. An order in any
// other state is left alone with a warning: verification retries must be
// idempotent, not fail.
func (o *Orders) AdvanceToProcessing(ctx context.Context, orderID int) error {
	advanced, err := o.repository.AdvanceOrderToProcessing(ctx, orderID)
	if err != nil {
		return fmt.Errorf("error advancing order: %w", err)
	}
	if !advanced {
		o.logger.WarnCtx(ctx, "order is not pending, advance skipped", zap.Int("orderID", orderID))
	}
	return nil
}

// GetOrder returns the order to its owner or an admin. Anyone else gets
// a not-found, so unauthorized callers cannot probe for existing ids.
func (o *Orders) GetOrder(ctx context.Context, orderID int, requesterID int, isAdmin bool) (data.Order, error) {
	order, err := o.repository.GetOrder(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return data.Order{}, ErrOrderNotFound
		default:
			return data.Order{}, fmt.Errorf("error getting order: %w", err)
		}
	}
	if order.UserID != requesterID && !isAdmin {
		return data.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders pages through the requesting user's own orders.
func (o *Orders) ListUserOrders(
	ctx context.Context,
	userID int,
	status data.OrderStatus,
	page data.Page,
) ([]data.OrderSummary, Pagination, error) {
	filter := data.OrderFilter{UserID: userID, Status: status}
	return o.list(ctx, filter, page)
}

// ListOrders is the admin listing with status filter and order-number
// search.
func (o *Orders) ListOrders(
	ctx context.Context,
	filter data.OrderFilter,
	page data.Page,
) ([]data.OrderSummary, Pagination, error) {
	return o.list(ctx, filter, page)
}

func (o *Orders) list(
	ctx context.Context,
	filter data.OrderFilter,
	page data.Page,
) ([]data.OrderSummary, Pagination, error) {
	orders, total, err := o.repository.GetOrders(ctx, filter, page)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("error listing orders: %w", err)
	}
	return orders, newPagination(page.Number, page.Limit, total), nil
}

var allowedTransitions = map[data.OrderStatus]map[data.OrderStatus]bool{
	data.PendingOrderStatus: {
		data.ProcessingStatus:     true,
		data.CancelledOrderStatus: true,
	},
	data.ProcessingStatus: {
		data.CompletedOrderStatus: true,
	},
	data.CompletedOrderStatus: {},
	data.CancelledOrderStatus: {},
}

// UpdateOrder applies the admin sparse patch. Setting the same status
// again is a no-op; any other change must follow the state machine.
// An admin cancellation restores finite stock exactly like a customer
// cancel.
func (o *Orders) UpdateOrder(ctx context.Context, orderID int, patch data.OrderPatch) (data.Order, error) {
	var order data.Order
	err := o.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.repository.GetOrder(ctx, orderID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				return ErrOrderNotFound
			default:
				return fmt.Errorf("error getting order: %w", err)
			}
		}

		if patch.Status != nil {
			newStatus := *patch.Status
			if newStatus == order.Status {
				patch.Status = nil
			} else if !allowedTransitions[order.Status][newStatus] {
				return ErrInvalidStateTransition
			}
		}

		if patch.Status == nil && patch.Notes == nil {
			return nil
		}

		if err := o.repository.UpdateOrder(ctx, orderID, patch); err != nil {
			return fmt.Errorf("error updating order: %w", err)
		}
		if patch.Status != nil {
			order.Status = *patch.Status
			if *patch.Status == data.CancelledOrderStatus {
				if err := o.restoreStock(ctx, order); err != nil {
					return err
				}
			}
		}
		if patch.Notes != nil {
			order.Notes = *patch.Notes
		}
		return nil
	})
	if err != nil {
		return data.Order{}, err //nolint:wrapcheck // unnecessary
	}
	return order, nil
}
