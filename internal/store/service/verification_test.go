package service

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

type fakeVerificationRepo struct {
	mu       sync.Mutex
	orders   map[int]data.Order
	receipts map[int]data.Receipt
	setCalls int
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{
		orders:   make(map[int]data.Order),
		receipts: make(map[int]data.Receipt),
	}
}

func (r *fakeVerificationRepo) GetReceipt(_ context.Context, receiptID int) (data.Receipt, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipt, ok := r.receipts[receiptID]
	if !ok {
		return data.Receipt{}, 0, data.ErrNotFound
	}
	return receipt, r.orders[receipt.OrderID].UserID, nil
}

func (r *fakeVerificationRepo) SetReceiptDecision(
	_ context.Context,
	receiptID int,
	status data.ReceiptStatus,
	verifiedBy int,
	notes string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipt, ok := r.receipts[receiptID]
	if !ok {
		return data.ErrNotFound
	}
	r.setCalls++
	now := time.Now()
	receipt.Status = status
	receipt.VerifiedBy = &verifiedBy
	receipt.VerifiedAt = &now
	receipt.Notes = notes
	r.receipts[receiptID] = receipt
	return nil
}

func (r *fakeVerificationRepo) GetOrder(_ context.Context, orderID int) (data.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return data.Order{}, data.ErrNotFound
	}
	return order, nil
}

type recordingAdvancer struct {
	mu       sync.Mutex
	orderIDs []int
}

func (a *recordingAdvancer) AdvanceToProcessing(_ context.Context, orderID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orderIDs = append(a.orderIDs, orderID)
	return nil
}

func (a *recordingAdvancer) advanced() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.orderIDs...)
}

func newVerificationFixture() (*Verification, *fakeVerificationRepo, *recordingAdvancer, *captureNotifier) {
	repo := newFakeVerificationRepo()
	advancer := &recordingAdvancer{}
	notifier := &captureNotifier{}
	service := NewVerification(&fakeTxManager{}, repo, advancer, notifier, logging.NewNop())
	return service, repo, advancer, notifier
}

func TestDecideRejectsUnknownDecision(t *testing.T) {
	service, _, _, _ := newVerificationFixture()

	_, err := service.Decide(context.Background(), 1, 9, data.PendingReceiptStatus, "")
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = service.Decide(context.Background(), 1, 9, data.ReceiptStatus("approved"), "")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecideUnknownReceipt(t *testing.T) {
	service, _, _, _ := newVerificationFixture()

	_, err := service.Decide(context.Background(), 99, 9, data.VerifiedReceiptStatus, "")
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestDecideVerifyAdvancesOrder(t *testing.T) {
	service, repo, advancer, notifier := newVerificationFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7, OrderNumber: "BJ123456ABCDE", Status: data.PendingOrderStatus}
	repo.receipts[5] = data.Receipt{ID: 5, OrderID: 1, Status: data.PendingReceiptStatus}

	receipt, err := service.Decide(context.Background(), 5, 9, data.VerifiedReceiptStatus, "looks good")
	require.NoError(t, err)

	assert.Equal(t, data.VerifiedReceiptStatus, receipt.Status)
	require.NotNil(t, receipt.VerifiedBy)
	assert.Equal(t, 9, *receipt.VerifiedBy)
	assert.NotNil(t, receipt.VerifiedAt)
	assert.Equal(t, []int{1}, advancer.advanced())

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, "decided", events[0].kind)
	assert.Equal(t, "verified", events[0].decision)
	assert.Equal(t, "BJ123456ABCDE", events[0].orderNumber)
}

func TestDecideRejectLeavesOrderAlone(t *testing.T) {
	service, repo, advancer, _ := newVerificationFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7, Status: data.PendingOrderStatus}
	repo.receipts[5] = data.Receipt{ID: 5, OrderID: 1, Status: data.PendingReceiptStatus}

	receipt, err := service.Decide(context.Background(), 5, 9, data.RejectedReceiptStatus, "blurry image")
	require.NoError(t, err)

	assert.Equal(t, data.RejectedReceiptStatus, receipt.Status)
	assert.Empty(t, advancer.advanced())
}

func TestDecideRepeatedDecisionIsNoop(t *testing.T) {
	service, repo, advancer, _ := newVerificationFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7, Status: data.PendingOrderStatus}
	repo.receipts[5] = data.Receipt{ID: 5, OrderID: 1, Status: data.PendingReceiptStatus}

	_, err := service.Decide(context.Background(), 5, 9, data.VerifiedReceiptStatus, "")
	require.NoError(t, err)
	require.Equal(t, 1, repo.setCalls)

	receipt, err := service.Decide(context.Background(), 5, 10, data.VerifiedReceiptStatus, "")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.setCalls)
	require.NotNil(t, receipt.VerifiedBy)
	assert.Equal(t, 9, *receipt.VerifiedBy)
	assert.Equal(t, []int{1}, advancer.advanced())
}

func TestDecideOverrideChangesDecision(t *testing.T) {
	service, repo, advancer, _ := newVerificationFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7, Status: data.PendingOrderStatus}
	repo.receipts[5] = data.Receipt{ID: 5, OrderID: 1, Status: data.PendingReceiptStatus}

	_, err := service.Decide(context.Background(), 5, 9, data.RejectedReceiptStatus, "")
	require.NoError(t, err)
	require.Empty(t, advancer.advanced())

	receipt, err := service.Decide(context.Background(), 5, 9, data.VerifiedReceiptStatus, "second look")
	require.NoError(t, err)

	assert.Equal(t, data.VerifiedReceiptStatus, receipt.Status)
	assert.Equal(t, []int{1}, advancer.advanced())
}
