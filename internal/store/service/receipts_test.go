package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYJDG/byjudge-main1/internal/store/blobstore"
	"github.com/BYJDG/byjudge-main1/internal/store/data"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type fakeReceiptRepo struct {
	mu        sync.Mutex
	orders    map[int]data.Order
	receipts  map[int]data.Receipt
	owners    map[int]int
	nextID    int
	insertErr error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{
		orders:   make(map[int]data.Order),
		receipts: make(map[int]data.Receipt),
		owners:   make(map[int]int),
	}
}

func (r *fakeReceiptRepo) GetOrder(_ context.Context, orderID int) (data.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return data.Order{}, data.ErrNotFound
	}
	return order, nil
}

func (r *fakeReceiptRepo) InsertReceipt(_ context.Context, receipt *data.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, existing := range r.receipts {
		if existing.OrderID == receipt.OrderID {
			return data.ErrUniqueConstraintViolation
		}
	}
	r.nextID++
	receipt.ID = r.nextID
	r.receipts[receipt.ID] = *receipt
	r.owners[receipt.ID] = r.orders[receipt.OrderID].UserID
	return nil
}

func (r *fakeReceiptRepo) GetReceipt(_ context.Context, receiptID int) (data.Receipt, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipt, ok := r.receipts[receiptID]
	if !ok {
		return data.Receipt{}, 0, data.ErrNotFound
	}
	return receipt, r.owners[receiptID], nil
}

func (r *fakeReceiptRepo) GetReceiptByFilename(_ context.Context, filename string) (data.Receipt, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, receipt := range r.receipts {
		if receipt.Filename == filename {
			return receipt, r.owners[id], nil
		}
	}
	return data.Receipt{}, 0, data.ErrNotFound
}

func (r *fakeReceiptRepo) GetReceiptByOrder(_ context.Context, orderID int) (data.Receipt, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, receipt := range r.receipts {
		if receipt.OrderID == orderID {
			return receipt, r.owners[id], nil
		}
	}
	return data.Receipt{}, 0, data.ErrNotFound
}

func (r *fakeReceiptRepo) DeleteReceipt(_ context.Context, receiptID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.receipts[receiptID]; !ok {
		return data.ErrNotFound
	}
	delete(r.receipts, receiptID)
	delete(r.owners, receiptID)
	return nil
}

func (r *fakeReceiptRepo) GetReceipts(_ context.Context, _ data.ReceiptFilter, _ data.Page) ([]data.ReceiptSummary, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]data.ReceiptSummary, 0, len(r.receipts))
	for _, receipt := range r.receipts {
		result = append(result, data.ReceiptSummary{Receipt: receipt})
	}
	return result, len(result), nil
}

type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (s *fakeBlobStore) Store(_ context.Context, filename string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[filename] = content
	return nil
}

func (s *fakeBlobStore) Read(_ context.Context, filename string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.blobs[filename]
	if !ok {
		return nil, blobstore.ErrBlobNotFound
	}
	return content, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, filename)
	return nil
}

func (s *fakeBlobStore) Exists(_ context.Context, filename string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[filename]
	return ok, nil
}

func (s *fakeBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

type notifierEvent struct {
	kind        string
	orderNumber string
	receiptID   int
	decision    string
}

type captureNotifier struct {
	mu     sync.Mutex
	events []notifierEvent
}

func (n *captureNotifier) ReceiptUploaded(_ context.Context, orderNumber string, receiptID int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{kind: "uploaded", orderNumber: orderNumber, receiptID: receiptID})
}

func (n *captureNotifier) ReceiptDecided(_ context.Context, orderNumber string, receiptID int, decision string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{
		kind:        "decided",
		orderNumber: orderNumber,
		receiptID:   receiptID,
		decision:    decision,
	})
}

func (n *captureNotifier) all() []notifierEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifierEvent(nil), n.events...)
}

func newReceiptsFixture() (*Receipts, *fakeReceiptRepo, *fakeBlobStore, *captureNotifier) {
	repo := newFakeReceiptRepo()
	blobs := newFakeBlobStore()
	notifier := &captureNotifier{}
	service := NewReceipts(repo, blobs, notifier, logging.NewNop())
	return service, repo, blobs, notifier
}

func TestUploadStoresBlobAndRow(t *testing.T) {
	service, repo, blobs, notifier := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7, OrderNumber: "BJ123456ABCDE"}

	receipt, err := service.Upload(context.Background(), 7, UploadInput{
		OrderID:      1,
		OriginalName: "dekont.png",
		MimeType:     "image/png",
		Content:      []byte("image-bytes"),
		Notes:        "paid via bank transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, data.PendingReceiptStatus, receipt.Status)
	assert.Equal(t, int64(len("image-bytes")), receipt.FileSize)
	assert.Contains(t, receipt.Filename, "receipt-")
	assert.Contains(t, receipt.Filename, ".png")
	assert.Equal(t, 1, blobs.count())

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, "uploaded", events[0].kind)
	assert.Equal(t, "BJ123456ABCDE", events[0].orderNumber)
}

func TestUploadRejectsUnknownOrder(t *testing.T) {
	service, _, blobs, _ := newReceiptsFixture()

	_, err := service.Upload(context.Background(), 7, UploadInput{
		OrderID:      99,
		OriginalName: "dekont.png",
		Content:      []byte("x"),
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 0, blobs.count())
}

func TestUploadRejectsForeignOrder(t *testing.T) {
	service, repo, blobs, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	_, err := service.Upload(context.Background(), 8, UploadInput{
		OrderID:      1,
		OriginalName: "dekont.png",
		Content:      []byte("x"),
	})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 0, blobs.count())
}

func TestUploadRejectsUnsupportedFileType(t *testing.T) {
	service, repo, blobs, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	for _, name := range []string{"dekont.pdf", "dekont.exe", "dekont"} {
		_, err := service.Upload(context.Background(), 7, UploadInput{
			OrderID:      1,
			OriginalName: name,
			Content:      []byte("x"),
		})
		assert.ErrorIs(t, err, ErrUnsupportedFileType, name)
	}
	assert.Equal(t, 0, blobs.count())
}

func TestUploadDuplicateCleansUpBlob(t *testing.T) {
	service, repo, blobs, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	_, err := service.Upload(context.Background(), 7, UploadInput{
		OrderID:      1,
		OriginalName: "first.png",
		Content:      []byte("x"),
	})
	require.NoError(t, err)

	_, err = service.Upload(context.Background(), 7, UploadInput{
		OrderID:      1,
		OriginalName: "second.png",
		Content:      []byte("y"),
	})
	assert.ErrorIs(t, err, ErrDuplicateReceipt)
	assert.Equal(t, 1, blobs.count())
}

func TestDeleteRequiresOwnerOrAdmin(t *testing.T) {
	service, repo, blobs, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	receipt, err := service.Upload(context.Background(), 7, UploadInput{
		OrderID:      1,
		OriginalName: "dekont.png",
		Content:      []byte("x"),
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), receipt.ID, 8, false)
	assert.ErrorIs(t, err, ErrForbidden)

	err = service.Delete(context.Background(), receipt.ID, 8, true)
	require.NoError(t, err)
	assert.Equal(t, 0, blobs.count())

	err = service.Delete(context.Background(), receipt.ID, 7, false)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestFetchServesOwnerAndAdmin(t *testing.T) {
	service, repo, _, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	receipt, err := service.Upload(context.Background(), 7, UploadInput{
		OrderID:      1,
		OriginalName: "dekont.png",
		MimeType:     "image/png",
		Content:      []byte("image-bytes"),
	})
	require.NoError(t, err)

	file, err := service.Fetch(context.Background(), receipt.Filename, 7, false)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), file.Content)
	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, "dekont.png", file.OriginalName)

	_, err = service.Fetch(context.Background(), receipt.Filename, 8, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.Fetch(context.Background(), receipt.Filename, 8, true)
	require.NoError(t, err)
}

func TestFetchReportsMissingBlobAsNotFound(t *testing.T) {
	service, repo, blobs, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	receipt, err := service.Upload(context.Background(), 7, UploadInput{
		OrderID:      1,
		OriginalName: "dekont.png",
		Content:      []byte("x"),
	})
	require.NoError(t, err)
	require.NoError(t, blobs.Delete(context.Background(), receipt.Filename))

	_, err = service.Fetch(context.Background(), receipt.Filename, 7, false)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}

func TestFindForOrderReturnsNilWithoutReceipt(t *testing.T) {
	service, repo, _, _ := newReceiptsFixture()
	repo.orders[1] = data.Order{ID: 1, UserID: 7}

	receipt, err := service.FindForOrder(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, receipt)
}
