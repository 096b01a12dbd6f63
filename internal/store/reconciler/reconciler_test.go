package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type fakeReceiptSource struct {
	mu        sync.Mutex
	pending   []data.Receipt
	drainOnce bool
}

func (s *fakeReceiptSource) GetUnreconciledReceipts(_ context.Context, limit int) ([]data.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	batch := append([]data.Receipt(nil), s.pending[:limit]...)
	if s.drainOnce {
		s.pending = s.pending[limit:]
	}
	return batch, nil
}

type countingAdvancer struct {
	mu    sync.Mutex
	calls map[int]int
}

func newCountingAdvancer() *countingAdvancer {
	return &countingAdvancer{calls: make(map[int]int)}
}

func (a *countingAdvancer) AdvanceToProcessing(_ context.Context, orderID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[orderID]++
	return nil
}

func (a *countingAdvancer) snapshot() map[int]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make(map[int]int, len(a.calls))
	for id, n := range a.calls {
		result[id] = n
	}
	return result
}

func TestReconcilerAdvancesUnreconciledOrders(t *testing.T) {
	source := &fakeReceiptSource{
		pending: []data.Receipt{
			{ID: 1, OrderID: 10},
			{ID: 2, OrderID: 11},
			{ID: 3, OrderID: 12},
		},
		drainOnce: true,
	}
	advancer := newCountingAdvancer()

	r := New(Config{
		TickPeriod:        10 * time.Millisecond,
		WorkersCount:      2,
		TasksBufferLength: 8,
	}, source, advancer, logging.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run()
	}()

	require.Eventually(t, func() bool {
		return len(advancer.snapshot()) == 3
	}, time.Second, 10*time.Millisecond)

	r.Stop()
	<-done

	calls := advancer.snapshot()
	assert.Equal(t, 1, calls[10])
	assert.Equal(t, 1, calls[11])
	assert.Equal(t, 1, calls[12])
}

func TestTickDeduplicatesInFlightOrders(t *testing.T) {
	source := &fakeReceiptSource{
		pending: []data.Receipt{{ID: 1, OrderID: 10}},
	}
	advancer := newCountingAdvancer()

	r := New(Config{
		TickPeriod:        time.Hour,
		WorkersCount:      1,
		TasksBufferLength: 8,
	}, source, advancer, logging.NewNop())

	orderIDs := make(chan int, 8)
	require.NoError(t, r.tick(orderIDs))
	// The same receipt is still unreconciled but its order is in flight.
	require.NoError(t, r.tick(orderIDs))

	close(orderIDs)
	collected := make([]int, 0)
	for id := range orderIDs {
		collected = append(collected, id)
	}
	assert.Equal(t, []int{10}, collected)
}

func TestTickRespectsBufferCapacity(t *testing.T) {
	source := &fakeReceiptSource{
		pending: []data.Receipt{
			{ID: 1, OrderID: 10},
			{ID: 2, OrderID: 11},
			{ID: 3, OrderID: 12},
		},
	}
	advancer := newCountingAdvancer()

	r := New(Config{
		TickPeriod:        time.Hour,
		WorkersCount:      1,
		TasksBufferLength: 2,
	}, source, advancer, logging.NewNop())

	orderIDs := make(chan int, 2)
	require.NoError(t, r.tick(orderIDs))
	assert.Len(t, orderIDs, 2)

	// Buffer is full, the next tick must not block.
	require.NoError(t, r.tick(orderIDs))
	assert.Len(t, orderIDs, 2)
}
