package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type VerificationRepository interface {
	GetReceipt(ctx context.Context, receiptID int) (data.Receipt, int, error)
	SetReceiptDecision(ctx context.Context, receiptID int, status data.ReceiptStatus, verifiedBy int, notes string) error
	GetOrder(ctx context.Context, orderID int) (data.Order, error)
}

type OrderAdvancer interface {
	AdvanceToProcessing(ctx context.Context, orderID int) error
}

// Verification is the admin decision workflow: it marks the receipt and,
// on approval, pushes the evidenced order forward.
type Verification struct {
	transactionManager TransactionManager
	repository         VerificationRepository
	orders             OrderAdvancer
	notifier           Notifier
	logger             *logging.ZapLogger
}

func NewVerification(
	transactionManager TransactionManager,
	repository VerificationRepository,
	orders OrderAdvancer,
	notifier Notifier,
	logger *logging.ZapLogger,
) *Verification {
	return &Verification{
		transactionManager: transactionManager,
		repository:         repository,
		orders:             orders,
		notifier:           notifier,
		logger:             logger,
	}
}

// Decide records the verdict. Approving advances the order to
// processing in the same transaction; rejecting leaves the order alone
// so the customer can replace the receipt. Re-delivering an identical
// decision is a no-op success.
func (v *Verification) Decide(
	ctx context.Context,
	receiptID int,
	verifierID int,
	decision data.ReceiptStatus,
	notes string,
) (data.Receipt, error) {
	if decision != data.VerifiedReceiptStatus && decision != data.RejectedReceiptStatus {
		return data.Receipt{}, ErrInvalidDecision
	}

	var updated data.Receipt
	var orderNumber string
	err := v.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		receipt, _, err := v.repository.GetReceipt(ctx, receiptID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				return ErrReceiptNotFound
			default:
				return fmt.Errorf("error getting receipt: %w", err)
			}
		}

		order, err := v.repository.GetOrder(ctx, receipt.OrderID)
		if err != nil {
			return fmt.Errorf("error getting receipt order: %w", err)
		}
		orderNumber = order.OrderNumber

		if receipt.Status == decision && receipt.VerifiedBy != nil {
			v.logger.DebugCtx(ctx, "receipt decision already recorded",
				zap.Int("receiptID", receiptID),
				zap.String("decision", string(decision)),
			)
			updated = receipt
			return nil
		}

		if err := v.repository.SetReceiptDecision(ctx, receiptID, decision, verifierID, notes); err != nil {
			return fmt.Errorf("error setting receipt decision: %w", err)
		}
		updated, _, err = v.repository.GetReceipt(ctx, receiptID)
		if err != nil {
			return fmt.Errorf("error reloading receipt: %w", err)
		}

		if decision == data.VerifiedReceiptStatus {
			if err := v.orders.AdvanceToProcessing(ctx, receipt.OrderID); err != nil {
				return fmt.Errorf("error advancing verified order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return data.Receipt{}, err //nolint:wrapcheck // unnecessary
	}

	v.logger.InfoCtx(ctx, "receipt decision recorded",
		zap.Int("receiptID", receiptID),
		zap.Int("verifierID", verifierID),
		zap.String("decision", string(decision)),
	)
	v.notifier.ReceiptDecided(ctx, orderNumber, receiptID, string(decision))
	return updated, nil
}
