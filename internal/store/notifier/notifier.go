package notifier

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type Config struct {
	WebhookURL string
	Timeout    time.Duration
}

// Webhook pushes order events to the configured admin endpoint so a
// reviewer learns about fresh receipts without polling. Delivery is
// best effort: failures are logged, never surfaced to the customer.
type Webhook struct {
	client *resty.Client
	cfg    Config
	logger *logging.ZapLogger
}

func NewWebhook(cfg Config, logger *logging.ZapLogger) *Webhook {
	return &Webhook{
		client: resty.New().SetTimeout(cfg.Timeout),
		cfg:    cfg,
		logger: logger,
	}
}

type event struct {
	Event       string `json:"event"`
	OrderNumber string `json:"order_number"`
	ReceiptID   int    `json:"receipt_id"`
	Decision    string `json:"decision,omitempty"`
}

func (w *Webhook) ReceiptUploaded(ctx context.Context, orderNumber string, receiptID int) {
	w.send(ctx, event{
		Event:       "receipt_uploaded",
		OrderNumber: orderNumber,
		ReceiptID:   receiptID,
	})
}

func (w *Webhook) ReceiptDecided(ctx context.Context, orderNumber string, receiptID int, decision string) {
	w.send(ctx, event{
		Event:       "receipt_decided",
		OrderNumber: orderNumber,
		ReceiptID:   receiptID,
		Decision:    decision,
	})
}

// send posts asynchronously; the request outlives the caller's context
// so an HTTP response already written to the customer does not cancel
// the notification.
func (w *Webhook) send(_ context.Context, e event) {
	if w.cfg.WebhookURL == "" {
		return
	}
	fields := logging.WithContextFields(context.Background(),
		zap.String("event", e.Event),
		zap.String("orderNumber", e.OrderNumber),
	)
	go func() {
		resp, err := w.client.R().
			SetBody(e).
			Post(w.cfg.WebhookURL)
		if err != nil {
			w.logger.WarnCtx(fields, "webhook delivery failed", zap.Error(err))
			return
		}
		if resp.IsError() {
			w.logger.WarnCtx(fields, "webhook returned error status", zap.Int("statusCode", resp.StatusCode()))
		}
	}()
}
