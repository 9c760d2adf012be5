package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/domain/model"
	"github.com/ledgerline/paymentd/internal/mocks"
	"github.com/ledgerline/paymentd/internal/testutil"
)

// recordingScheduler captures enqueued payment ids.
type recordingScheduler struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingScheduler) Enqueue(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recordingScheduler) enqueued() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func newTestPaymentService(t *testing.T) (*PaymentService, *data.MemoryPaymentRepo, *recordingScheduler) {
	t.Helper()
	repo := data.NewMemoryPaymentRepo()
	sched := &recordingScheduler{}
	svc, err := NewPaymentService(PaymentServiceOptions{
		Repo:      repo,
		Index:     data.NewMemoryIdempotencyIndex(),
		Scheduler: sched,
	})
	require.NoError(t, err)
	return svc, repo, sched
}

func TestPaymentService_Create(t *testing.T) {
	svc, _, sched := newTestPaymentService(t)
	ctx := context.Background()

	payment, err := svc.Create(ctx, testutil.NewPaymentRequest().WithAmount(2500).WithCurrency("eur").Build(), "")
	require.NoError(t, err)

	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, int64(2500), payment.Amount)
	assert.Equal(t, "EUR", payment.Currency)
	assert.Nil(t, payment.Result)
	assert.Nil(t, payment.Error)
	assert.Equal(t, []string{payment.ID}, sched.enqueued())
}

func TestPaymentService_Create_Invalid(t *testing.T) {
	svc, _, sched := newTestPaymentService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testutil.NewPaymentRequest().WithAmount(0).Build(), "")
	assert.Error(t, err)

	_, err = svc.Create(ctx, nil, "")
	assert.Error(t, err)

	assert.Empty(t, sched.enqueued())
}

func TestPaymentService_Create_IdempotentReplay(t *testing.T) {
	svc, _, sched := newTestPaymentService(t)
	ctx := context.Background()
	req := testutil.NewPaymentRequest().Build()

	first, err := svc.Create(ctx, req, "key-1")
	require.NoError(t, err)

	second, err := svc.Create(ctx, req, "key-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// Replay schedules nothing new.
	assert.Equal(t, []string{first.ID}, sched.enqueued())
}

func TestPaymentService_Create_DistinctKeysDistinctPayments(t *testing.T) {
	svc, _, _ := newTestPaymentService(t)
	ctx := context.Background()
	req := testutil.NewPaymentRequest().Build()

	a, err := svc.Create(ctx, req, "key-a")
	require.NoError(t, err)
	b, err := svc.Create(ctx, req, "key-b")
	require.NoError(t, err)
	c, err := svc.Create(ctx, req, "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.NotEqual(t, b.ID, c.ID)
}

func TestPaymentService_Create_ReplayIgnoresNewBody(t *testing.T) {
	svc, _, _ := newTestPaymentService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, testutil.NewPaymentRequest().WithAmount(100).Build(), "key-1")
	require.NoError(t, err)

	second, err := svc.Create(ctx, testutil.NewPaymentRequest().WithAmount(999999).Build(), "key-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(100), second.Amount)
}

func TestPaymentService_Create_ConcurrentSameKey(t *testing.T) {
	svc, _, sched := newTestPaymentService(t)
	ctx := context.Background()
	req := testutil.NewPaymentRequest().Build()

	const goroutines = 16
	results := make([]*model.Payment, goroutines)
	errs := make([]error, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Create(ctx, req, "shared-key")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	for _, p := range results[1:] {
		assert.Equal(t, results[0].ID, p.ID)
	}
	assert.Len(t, sched.enqueued(), 1)
}

func TestPaymentService_Create_LostBindRaceReturnsWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := data.NewMemoryPaymentRepo()
	index := mocks.NewMockIdempotencyIndex(ctrl)

	winner := testutil.NewPayment(model.PaymentStatusPending)
	require.NoError(t, repo.Create(context.Background(), winner))

	// Key unbound at lookup time, but another process binds it first.
	index.EXPECT().Lookup(gomock.Any(), "raced-key").Return("", false, nil)
	index.EXPECT().Bind(gomock.Any(), "raced-key", gomock.Any()).Return(winner.ID, false, nil)

	svc, err := NewPaymentService(PaymentServiceOptions{Repo: repo, Index: index})
	require.NoError(t, err)

	got, err := svc.Create(context.Background(), testutil.NewPaymentRequest().Build(), "raced-key")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}

func TestPaymentService_Create_DanglingKeyCreatesFresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := data.NewMemoryPaymentRepo()
	index := mocks.NewMockIdempotencyIndex(ctrl)

	index.EXPECT().Lookup(gomock.Any(), "stale-key").Return("gone-id", true, nil)
	index.EXPECT().Bind(gomock.Any(), "stale-key", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, paymentID string) (string, bool, error) {
			return paymentID, true, nil
		})

	svc, err := NewPaymentService(PaymentServiceOptions{Repo: repo, Index: index})
	require.NoError(t, err)

	got, err := svc.Create(context.Background(), testutil.NewPaymentRequest().Build(), "stale-key")
	require.NoError(t, err)
	assert.NotEqual(t, "gone-id", got.ID)
	assert.Equal(t, model.PaymentStatusPending, got.Status)
}

func TestPaymentService_GetByID(t *testing.T) {
	svc, repo, _ := newTestPaymentService(t)
	ctx := context.Background()

	seeded := testutil.NewPayment(model.PaymentStatusSucceeded)
	require.NoError(t, repo.Create(ctx, seeded))

	got, err := svc.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = svc.GetByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, data.ErrPaymentNotFound)
}

func TestNewPaymentService_RequiresDeps(t *testing.T) {
	_, err := NewPaymentService(PaymentServiceOptions{Index: data.NewMemoryIdempotencyIndex()})
	assert.Error(t, err)

	_, err = NewPaymentService(PaymentServiceOptions{Repo: data.NewMemoryPaymentRepo()})
	assert.Error(t, err)
}
