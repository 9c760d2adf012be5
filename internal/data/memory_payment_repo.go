// Package data provides store implementations for the paymentd system.
package data

import (
	"context"
	"sync"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/domain/model"
)

// MemoryPaymentRepo is an in-memory PaymentRepository for single-process
// deployments and tests. All read-check-write sequences run under the
// repository mutex, so status transitions are atomic per id.
type MemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]model.Payment
	time     TimeProvider
}

// NewMemoryPaymentRepo creates an empty in-memory payment store.
func NewMemoryPaymentRepo() *MemoryPaymentRepo {
	return NewMemoryPaymentRepoWithTime(&RealTimeProvider{})
}

// NewMemoryPaymentRepoWithTime creates the store with an injected
// TimeProvider for deterministic tests.
func NewMemoryPaymentRepoWithTime(tp TimeProvider) *MemoryPaymentRepo {
	return &MemoryPaymentRepo{
		payments: make(map[string]model.Payment),
		time:     tp,
	}
}

// Create stores a new payment record.
func (r *MemoryPaymentRepo) Create(_ context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[p.ID]; exists {
		return ErrPaymentExists
	}
	r.payments[p.ID] = *p
	return nil
}

// GetByID returns a copy of the payment record for id.
func (r *MemoryPaymentRepo) GetByID(_ context.Context, id string) (*model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return &p, nil
}

// TransitionStatus atomically moves the payment from params.From to
// params.To. It returns ErrStatusConflict if the current status is not
// params.From, so concurrent callers race safely: exactly one wins.
func (r *MemoryPaymentRepo) TransitionStatus(
	_ context.Context,
	params core.TransitionParams,
) (*model.Payment, error) {
	if !params.From.CanTransition(params.To) {
		return nil, ErrInvalidTransition
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[params.ID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	if p.Status != params.From {
		return nil, ErrStatusConflict
	}

	p.Status = params.To
	p.UpdatedAt = r.time.Now()
	if params.To.Terminal() {
		p.Result = params.Result
		p.Error = params.Error
	}
	r.payments[params.ID] = p
	return &p, nil
}

var _ core.PaymentRepository = (*MemoryPaymentRepo)(nil)
