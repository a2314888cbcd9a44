package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// memStore is an in-memory store with the same conditional write rule as the database.
type memStore struct {
	mu   sync.Mutex
	reqs map[uuid.UUID]*models.WithdrawalRequest
}

func newMemStore() *memStore {
	return &memStore{reqs: map[uuid.UUID]*models.WithdrawalRequest{}}
}

func (m *memStore) Create(ctx context.Context, req *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs[req.ID] = req.Clone()
	return nil
}

func (m *memStore) UpdateTransition(ctx context.Context, prev, next *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.reqs[prev.ID]
	if !ok {
		return models.NewNotFound(prev.ID)
	}
	if cur.Status != prev.Status || cur.Version != prev.Version {
		return models.NewConcurrentModification("stale write")
	}
	next.Version = prev.Version + 1
	m.reqs[prev.ID] = next.Clone()
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.reqs[id]
	if !ok {
		return nil, models.NewNotFound(id)
	}
	return cur.Clone(), nil
}

func (m *memStore) List(ctx context.Context, filter models.ListFilter, limit, offset int) ([]models.WithdrawalRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.WithdrawalRequest
	for _, r := range m.reqs {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.RequesterID != nil && r.RequesterID != *filter.RequesterID {
			continue
		}
		item := *r.Clone()
		item.History = nil
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type directTx struct{}

func (directTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.LifecycleEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, evt models.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

// tickingClock advances one minute per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := t0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

var bank = models.NewBankSnapshot("VCB", "9704 0000 1111 2222", "Tran Thi B")

func newPendingApproval(t *testing.T, svc *WithdrawalService) *models.WithdrawalRequest {
	t.Helper()
	ctx := context.Background()
	req, err := svc.Submit(ctx, uuid.New(), decimal.NewFromInt(1_000_000), decimal.NewFromInt(20_000), bank)
	require.NoError(t, err)
	req, err = svc.VerifyOtp(ctx, req.ID, req.RequesterID, "otp-ok")
	require.NoError(t, err)
	return req
}

func TestWithdrawalService_HappyPath(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewWithdrawalService(store, store, directTx{}, nil, pub, WithClock(tickingClock()))

	requester, operator := uuid.New(), uuid.New()

	req, err := svc.Submit(ctx, requester, decimal.NewFromInt(1_000_000), decimal.NewFromInt(20_000), bank)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingVerification, req.Status)
	assert.True(t, req.FinalAmount.Equal(decimal.NewFromInt(980_000)))
	assert.Equal(t, "************2222", req.Bank.AccountNumberMasked)
	assert.Empty(t, req.History)

	req, err = svc.VerifyOtp(ctx, req.ID, requester, "otp-ok")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingApproval, req.Status)

	req, err = svc.Approve(ctx, req.ID, operator, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, req.Status)
	require.NotNil(t, req.ApprovedAt)

	req, err = svc.Complete(ctx, req.ID, operator, models.Completion{TransactionCode: "TX123"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, req.Status)
	assert.Equal(t, "TX123", *req.TransactionCode)
	assert.True(t, req.ActualAmount.Equal(decimal.NewFromInt(980_000)))
	require.NotNil(t, req.ClosedAt)
	assert.NoError(t, req.CheckInvariants())

	stored, err := store.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, stored.History, 3)
	assert.Equal(t, int64(3), stored.Version)
	assert.Equal(t, operator, stored.History[2].ActorID)

	require.Len(t, pub.events, 3)
	assert.Equal(t, models.ActionVerifyOtp, pub.events[0].Action)
	assert.Equal(t, models.StatusCompleted, pub.events[2].ToStatus)
	assert.Equal(t, models.StatusProcessing, pub.events[2].FromStatus)
	assert.False(t, pub.events[2].AmountMismatch)
}

func TestWithdrawalService_ClosedRequestIsImmutable(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewWithdrawalService(store, store, directTx{}, nil, nil, WithClock(tickingClock()))

	req := newPendingApproval(t, svc)
	req, err := svc.Reject(ctx, req.ID, uuid.New(), "documents mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, req.Status)
	assert.Equal(t, "documents mismatch", *req.RejectionReason)

	for _, action := range models.Actions {
		_, err := svc.Transition(ctx, req.ID, uuid.New(), action, models.Payload{
			VerificationToken: "x", Reason: "x", TransactionCode: "x",
		})
		assert.ErrorIs(t, err, models.ErrInvalidTransition, string(action))
	}

	stored, err := store.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 2)
}

func TestWithdrawalService_ValidationAndLookupErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewWithdrawalService(store, store, directTx{}, nil, nil, WithClock(tickingClock()))

	req := newPendingApproval(t, svc)

	_, err := svc.Reject(ctx, req.ID, uuid.New(), "   ")
	assert.ErrorIs(t, err, models.ErrValidationFailed)

	_, err = svc.Approve(ctx, uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Approve then approve again.
	_, err = svc.Approve(ctx, req.ID, uuid.New(), "")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, req.ID, uuid.New(), "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestWithdrawalService_RevertAndReapprove(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewWithdrawalService(store, store, directTx{}, nil, nil, WithClock(tickingClock()))

	req := newPendingApproval(t, svc)
	_, err := svc.Approve(ctx, req.ID, uuid.New(), "")
	require.NoError(t, err)

	req, err = svc.Revert(ctx, req.ID, uuid.New(), "bank rejected account")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingApproval, req.Status)
	assert.Nil(t, req.ApprovedAt)

	req, err = svc.Approve(ctx, req.ID, uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, req.Status)
	assert.Len(t, req.History, 4)
}

func TestWithdrawalService_CompleteWithMismatchedAmount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewWithdrawalService(store, store, directTx{}, nil, pub, WithClock(tickingClock()))

	req := newPendingApproval(t, svc)
	_, err := svc.Approve(ctx, req.ID, uuid.New(), "")
	require.NoError(t, err)

	actual := decimal.RequireFromString("979999.50")
	req, err = svc.Complete(ctx, req.ID, uuid.New(), models.Completion{
		TransactionCode:  "TX123",
		TransactionProof: "https://bank.example/receipt/1",
		ActualAmount:     &actual,
	})
	require.NoError(t, err)
	assert.True(t, req.ActualAmount.Equal(actual))
	assert.Equal(t, "https://bank.example/receipt/1", *req.TransactionProof)

	last := pub.events[len(pub.events)-1]
	assert.True(t, last.AmountMismatch)
	assert.True(t, last.ActualAmount.Equal(actual))
}

func TestWithdrawalService_CompleteRejectsUnstorableAmount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewWithdrawalService(store, store, directTx{}, nil, pub, WithClock(tickingClock()))

	req := newPendingApproval(t, svc)
	_, err := svc.Approve(ctx, req.ID, uuid.New(), "")
	require.NoError(t, err)
	published := len(pub.events)

	huge := decimal.RequireFromString("1e23")
	_, err = svc.Complete(ctx, req.ID, uuid.New(), models.Completion{TransactionCode: "TX123", ActualAmount: &huge})

	var wfErr *models.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, models.KindValidationFailed, wfErr.Kind)
	assert.Equal(t, "actual_amount", wfErr.Field)

	got, err := store.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
	assert.Len(t, pub.events, published)
}

func TestWithdrawalService_ConcurrentApprove(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewWithdrawalService(store, store, directTx{}, nil, nil,
		WithClock(tickingClock()),
		WithMaxRetries(10),
		WithRetryDelay(time.Millisecond),
	)

	req := newPendingApproval(t, svc)

	const workers = 16
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		mu        sync.Mutex
		successes int
		invalid   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Approve(ctx, req.ID, uuid.New(), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, models.ErrInvalidTransition):
				invalid++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, invalid)

	stored, err := store.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, stored.Status)
	assert.Len(t, stored.History, 2)
}

func TestWithdrawalService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name      string
		requester uuid.UUID
		requested string
		fee       string
		bank      models.BankSnapshot
		field     string
	}{
		{"nil requester", uuid.Nil, "100", "1", bank, "requester_id"},
		{"zero amount", uuid.New(), "0", "0", bank, "requested_amount"},
		{"negative amount", uuid.New(), "-5", "0", bank, "requested_amount"},
		{"fractional cents", uuid.New(), "100.001", "0", bank, "requested_amount"},
		{"amount too large", uuid.New(), "1e23", "0", bank, "requested_amount"},
		{"amount at storage limit", uuid.New(), "1000000000000000000", "1", bank, "requested_amount"},
		{"fee too large", uuid.New(), "100", "1e19", bank, "processing_fee"},
		{"negative fee", uuid.New(), "100", "-1", bank, "processing_fee"},
		{"fee scale", uuid.New(), "100", "0.005", bank, "processing_fee"},
		{"fee equals amount", uuid.New(), "100", "100", bank, "processing_fee"},
		{"fee exceeds amount", uuid.New(), "100", "150", bank, "processing_fee"},
		{"missing bank name", uuid.New(), "100", "1", models.BankSnapshot{AccountNumberMasked: "**12", AccountHolder: "A"}, "bank_name"},
		{"missing account", uuid.New(), "100", "1", models.BankSnapshot{BankName: "VCB", AccountHolder: "A"}, "account_number"},
		{"missing holder", uuid.New(), "100", "1", models.BankSnapshot{BankName: "VCB", AccountNumberMasked: "**12"}, "account_holder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := NewMockWithdrawalWriter(ctrl)
			svc := NewWithdrawalService(writer, nil, nil, nil, nil)

			_, err := svc.Submit(context.Background(), tt.requester,
				decimal.RequireFromString(tt.requested), decimal.RequireFromString(tt.fee), tt.bank)

			require.ErrorIs(t, err, models.ErrValidationFailed)
			var we *models.WorkflowError
			require.True(t, errors.As(err, &we))
			assert.Equal(t, tt.field, we.Field)
		})
	}
}

func TestWithdrawalService_Submit_LargestStorableAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	writer.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	svc := NewWithdrawalService(writer, nil, nil, nil, nil)
	_, err := svc.Submit(context.Background(), uuid.New(),
		decimal.RequireFromString("999999999999999999.99"), decimal.Zero, bank)
	require.NoError(t, err)
}

func TestWithdrawalService_Submit_ZeroFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	writer.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	svc := NewWithdrawalService(writer, nil, nil, nil, nil)
	req, err := svc.Submit(context.Background(), uuid.New(), decimal.NewFromInt(500), decimal.Zero, bank)
	require.NoError(t, err)
	assert.True(t, req.FinalAmount.Equal(decimal.NewFromInt(500)))
}

func TestWithdrawalService_Submit_PersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	writer.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(models.NewPersistenceFailure("create withdrawal request", errors.New("db down")))

	svc := NewWithdrawalService(writer, nil, nil, nil, nil)
	_, err := svc.Submit(context.Background(), uuid.New(), decimal.NewFromInt(500), decimal.NewFromInt(5), bank)
	assert.ErrorIs(t, err, models.ErrPersistenceFailure)
}

// --- gomock based tests for retry, lock and publishing ---

func pendingApproval() *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		ID:              uuid.New(),
		RequesterID:     uuid.New(),
		RequestedAmount: decimal.NewFromInt(1_000_000),
		ProcessingFee:   decimal.NewFromInt(20_000),
		FinalAmount:     decimal.NewFromInt(980_000),
		Status:          models.StatusPendingApproval,
		Bank:            bank,
		CreatedAt:       t0,
		History: []models.HistoryEntry{
			{Seq: 1, At: t0, From: models.StatusPendingVerification, To: models.StatusPendingApproval, ActorID: uuid.New()},
		},
		Version: 1,
	}
}

func expectTx(tx *MockTxRunner) *gomock.Call {
	return tx.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func TestWithdrawalService_RetriesConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)
	pub := NewMockEventPublisher(ctrl)

	req := pendingApproval()
	expectTx(tx).Times(2)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).DoAndReturn(
		func(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
			return req.Clone(), nil
		}).Times(2)
	gomock.InOrder(
		writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(models.NewConcurrentModification("stale")),
		writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	svc := NewWithdrawalService(writer, reader, tx, nil, pub, WithRetryDelay(time.Millisecond))
	got, err := svc.Approve(context.Background(), req.ID, uuid.New(), "")

	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestWithdrawalService_RetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)
	pub := NewMockEventPublisher(ctrl)

	req := pendingApproval()
	expectTx(tx).Times(3)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil).Times(3)
	writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.NewConcurrentModification("stale")).Times(3)

	svc := NewWithdrawalService(writer, reader, tx, nil, pub,
		WithMaxRetries(2), WithRetryDelay(time.Millisecond))
	_, err := svc.Approve(context.Background(), req.ID, uuid.New(), "")

	assert.ErrorIs(t, err, models.ErrConcurrentModification)
}

func TestWithdrawalService_NoRetryOnInvalidTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)

	req := pendingApproval()
	expectTx(tx).Times(1)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil).Times(1)

	svc := NewWithdrawalService(writer, reader, tx, nil, nil)
	_, err := svc.Complete(context.Background(), req.ID, uuid.New(), models.Completion{TransactionCode: "TX"})

	var we *models.WorkflowError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, models.KindInvalidTransition, we.Kind)
	assert.Equal(t, models.StatusPendingApproval, we.Current)
}

func TestWithdrawalService_PublishFailureDoesNotFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)
	pub := NewMockEventPublisher(ctrl)

	req := pendingApproval()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expectTx(tx)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil)
	writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, prev, next *models.WithdrawalRequest) error {
			// The caller goes away right after commit.
			cancel()
			return nil
		})
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, evt models.LifecycleEvent) error {
			assert.NoError(t, ctx.Err())
			assert.Equal(t, models.ActionReject, evt.Action)
			return errors.New("broker unavailable")
		})

	svc := NewWithdrawalService(writer, reader, tx, nil, pub)
	got, err := svc.Reject(ctx, req.ID, uuid.New(), "blurry ID")

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestWithdrawalService_LockBusyIsRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)
	locker := NewMockRequestLocker(ctrl)

	req := pendingApproval()
	gomock.InOrder(
		locker.EXPECT().Acquire(gomock.Any(), req.ID).Return("", models.NewConcurrentModification("locked")),
		locker.EXPECT().Acquire(gomock.Any(), req.ID).Return("token-1", nil),
	)
	expectTx(tx)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil)
	writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	locker.EXPECT().Release(gomock.Any(), req.ID, "token-1").Return(nil)

	svc := NewWithdrawalService(writer, reader, tx, locker, nil, WithRetryDelay(time.Millisecond))
	_, err := svc.Approve(context.Background(), req.ID, uuid.New(), "")
	assert.NoError(t, err)
}

func TestWithdrawalService_LockReleasedOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)
	locker := NewMockRequestLocker(ctrl)

	id := uuid.New()
	locker.EXPECT().Acquire(gomock.Any(), id).Return("token-1", nil)
	expectTx(tx)
	reader.EXPECT().GetByID(gomock.Any(), id).Return(nil, models.NewNotFound(id))
	locker.EXPECT().Release(gomock.Any(), id, "token-1").Return(nil)

	svc := NewWithdrawalService(writer, reader, tx, locker, nil)
	_, err := svc.Approve(context.Background(), id, uuid.New(), "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestWithdrawalService_LockUnavailableFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)
	locker := NewMockRequestLocker(ctrl)

	req := pendingApproval()
	locker.EXPECT().Acquire(gomock.Any(), req.ID).Return("", errors.New("redis: connection refused"))
	expectTx(tx)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil)
	writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	svc := NewWithdrawalService(writer, reader, tx, locker, nil)
	_, err := svc.Approve(context.Background(), req.ID, uuid.New(), "")
	assert.NoError(t, err)
}

func TestWithdrawalService_TimestampsNeverGoBackwards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockWithdrawalWriter(ctrl)
	reader := NewMockWithdrawalReader(ctrl)
	tx := NewMockTxRunner(ctrl)

	req := pendingApproval()
	req.History[0].At = t0.Add(time.Hour)

	expectTx(tx)
	reader.EXPECT().GetByID(gomock.Any(), req.ID).Return(req, nil)
	writer.EXPECT().UpdateTransition(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	// Clock is behind the last recorded transition.
	svc := NewWithdrawalService(writer, reader, tx, nil, nil, WithClock(func() time.Time { return t0 }))
	got, err := svc.Approve(context.Background(), req.ID, uuid.New(), "")

	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), *got.ApprovedAt)
}
