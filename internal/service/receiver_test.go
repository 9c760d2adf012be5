package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/domain/model"
	"github.com/ledgerline/paymentd/internal/testutil"
)

func TestReceiver_Receive_FirstThenDuplicate(t *testing.T) {
	recv, err := NewReceiver(ReceiverOptions{Dedup: data.NewMemoryEventDedup()})
	require.NoError(t, err)

	event := testutil.NewEvent("pay-1", model.PaymentStatusSucceeded)

	duplicate, err := recv.Receive(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, duplicate)

	duplicate, err = recv.Receive(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, duplicate)

	// A different event id is independent.
	other := testutil.NewEvent("pay-1", model.PaymentStatusSucceeded)
	duplicate, err = recv.Receive(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, duplicate)
}

func TestReceiver_Receive_Invalid(t *testing.T) {
	recv, err := NewReceiver(ReceiverOptions{Dedup: data.NewMemoryEventDedup()})
	require.NoError(t, err)

	_, err = recv.Receive(context.Background(), nil)
	assert.Error(t, err)

	bad := testutil.NewEvent("pay-1", model.PaymentStatusFailed)
	bad.EventID = ""
	_, err = recv.Receive(context.Background(), bad)
	assert.Error(t, err)
}

func TestReceiver_Receive_ConcurrentSameEvent(t *testing.T) {
	recv, err := NewReceiver(ReceiverOptions{Dedup: data.NewMemoryEventDedup()})
	require.NoError(t, err)

	event := testutil.NewEvent("pay-1", model.PaymentStatusFailed)

	const deliveries = 16
	duplicates := make([]bool, deliveries)
	errs := make([]error, deliveries)
	var wg sync.WaitGroup
	for i := range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			duplicates[i], errs[i] = recv.Receive(context.Background(), event)
		}()
	}
	wg.Wait()

	firsts := 0
	for i := range deliveries {
		require.NoError(t, errs[i])
		if !duplicates[i] {
			firsts++
		}
	}
	assert.Equal(t, 1, firsts)
}
