package data

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/domain/model"
)

func pendingPayment(id string) *model.Payment {
	now := time.Now().UTC()
	return &model.Payment{
		ID:         id,
		Status:     model.PaymentStatusPending,
		Amount:     1999,
		Currency:   "USD",
		CustomerID: "cus_test",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestMemoryPaymentRepo_CreateAndGet(t *testing.T) {
	repo := NewMemoryPaymentRepo()
	ctx := context.Background()

	p := pendingPayment("pay-1")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, model.PaymentStatusPending, got.Status)

	// Stored record is a copy; mutating the returned value changes nothing.
	got.Status = model.PaymentStatusFailed
	again, err := repo.GetByID(ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, again.Status)
}

func TestMemoryPaymentRepo_CreateDuplicate(t *testing.T) {
	repo := NewMemoryPaymentRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, pendingPayment("pay-1")))
	assert.ErrorIs(t, repo.Create(ctx, pendingPayment("pay-1")), ErrPaymentExists)
}

func TestMemoryPaymentRepo_GetMissing(t *testing.T) {
	repo := NewMemoryPaymentRepo()
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMemoryPaymentRepo_TransitionStatus(t *testing.T) {
	fixed := NewFixedTimeProvider(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryPaymentRepoWithTime(fixed)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, pendingPayment("pay-1")))

	claimed, err := repo.TransitionStatus(ctx, core.TransitionParams{
		ID:   "pay-1",
		From: model.PaymentStatusPending,
		To:   model.PaymentStatusProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusProcessing, claimed.Status)
	assert.Equal(t, fixed.Now(), claimed.UpdatedAt)

	result := "rcpt_abc"
	done, err := repo.TransitionStatus(ctx, core.TransitionParams{
		ID:     "pay-1",
		From:   model.PaymentStatusProcessing,
		To:     model.PaymentStatusSucceeded,
		Result: &result,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSucceeded, done.Status)
	require.NotNil(t, done.Result)
	assert.Equal(t, "rcpt_abc", *done.Result)
	assert.Nil(t, done.Error)
}

func TestMemoryPaymentRepo_TransitionStatus_Conflict(t *testing.T) {
	repo := NewMemoryPaymentRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, pendingPayment("pay-1")))
	_, err := repo.TransitionStatus(ctx, core.TransitionParams{
		ID:   "pay-1",
		From: model.PaymentStatusPending,
		To:   model.PaymentStatusProcessing,
	})
	require.NoError(t, err)

	// Record is no longer pending, so a second claim loses.
	_, err = repo.TransitionStatus(ctx, core.TransitionParams{
		ID:   "pay-1",
		From: model.PaymentStatusPending,
		To:   model.PaymentStatusProcessing,
	})
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestMemoryPaymentRepo_TransitionStatus_InvalidAndMissing(t *testing.T) {
	repo := NewMemoryPaymentRepo()
	ctx := context.Background()

	_, err := repo.TransitionStatus(ctx, core.TransitionParams{
		ID:   "pay-1",
		From: model.PaymentStatusPending,
		To:   model.PaymentStatusSucceeded,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = repo.TransitionStatus(ctx, core.TransitionParams{
		ID:   "missing",
		From: model.PaymentStatusPending,
		To:   model.PaymentStatusProcessing,
	})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMemoryPaymentRepo_ConcurrentClaims(t *testing.T) {
	repo := NewMemoryPaymentRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, pendingPayment("pay-1")))

	const claimers = 16
	wins := make([]bool, claimers)
	var wg sync.WaitGroup
	for i := range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.TransitionStatus(ctx, core.TransitionParams{
				ID:   "pay-1",
				From: model.PaymentStatusPending,
				To:   model.PaymentStatusProcessing,
			})
			wins[i] = err == nil
		}()
	}
	wg.Wait()

	winners := 0
	for _, won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
