package reconciler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
	"github.com/BYJDG/byjudge-main1/pkg/threadsafe"
)

type ReceiptSource interface {
	GetUnreconciledReceipts(ctx context.Context, limit int) ([]data.Receipt, error)
}

type OrderAdvancer interface {
	AdvanceToProcessing(ctx context.Context, orderID int) error
}

type Config struct {
	TickPeriod        time.Duration
	WorkersCount      int
	TasksBufferLength int
}

// Reconciler repairs the detectable inconsistency left by a crash
// between marking a receipt verified and advancing its order: it
// periodically re-runs the advance step, which is idempotent, for every
// verified receipt whose order is still pending.
type Reconciler struct {
	receipts       ReceiptSource
	orders         OrderAdvancer
	inFlightOrders *threadsafe.HashSet[int]
	config         Config
	logger         *logging.ZapLogger
	done           chan struct{}
}

func New(
	config Config,
	receipts ReceiptSource,
	orders OrderAdvancer,
	logger *logging.ZapLogger,
) *Reconciler {
	return &Reconciler{
		receipts:       receipts,
		orders:         orders,
		inFlightOrders: threadsafe.NewHashSet[int](),
		config:         config,
		logger:         logger,
		done:           make(chan struct{}),
	}
}

func (r *Reconciler) Run() {
	orderIDsChan := make(chan int, r.config.TasksBufferLength)

	wg := &sync.WaitGroup{}

	for i := 0; i < r.config.WorkersCount; i++ {
		wg.Add(1)
		go func(orderIDsChan <-chan int) {
			defer wg.Done()
			r.worker(orderIDsChan)
		}(orderIDsChan)
	}

	wg.Add(1)
	go func(orderIDsChan chan<- int) {
		defer wg.Done()
		r.scheduler(orderIDsChan)
	}(orderIDsChan)

	wg.Wait()
}

func (r *Reconciler) Stop() {
	close(r.done)
}

func (r *Reconciler) scheduler(orderIDsChan chan<- int) {
	defer close(orderIDsChan)

	ticker := time.NewTicker(r.config.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			if err := r.tick(orderIDsChan); err != nil {
				r.logger.ErrorCtx(context.Background(), "error while scheduling reconciliation", zap.Error(err))
			}
		}
	}
}

func (r *Reconciler) tick(orderIDsChan chan<- int) error {
	maxTasksToSchedule := r.config.TasksBufferLength - len(orderIDsChan)
	if maxTasksToSchedule <= 0 {
		return nil
	}

	receipts, err := r.receipts.GetUnreconciledReceipts(context.Background(), maxTasksToSchedule)
	if err != nil {
		return err
	}

	for _, receipt := range receipts {
		if !r.inFlightOrders.Add(receipt.OrderID) {
			continue
		}
		select {
		case <-r.done:
			r.inFlightOrders.Remove(receipt.OrderID)
			return nil
		case orderIDsChan <- receipt.OrderID:
		}
	}
	return nil
}

func (r *Reconciler) worker(orderIDsChan <-chan int) {
	for orderID := range orderIDsChan {
		ctx := context.Background()
		if err := r.orders.AdvanceToProcessing(ctx, orderID); err != nil {
			r.logger.ErrorCtx(ctx, "failed to reconcile order",
				zap.Int("orderID", orderID),
				zap.Error(err),
			)
		} else {
			r.logger.InfoCtx(ctx, "reconciled verified receipt with pending order", zap.Int("orderID", orderID))
		}
		r.inFlightOrders.Remove(orderID)
	}
}
