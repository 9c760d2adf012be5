// Package core defines the ports between the service layer and the data layer.
package core

import (
	"context"

	"github.com/ledgerline/paymentd/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal
// architecture). Service implementations should depend on these interfaces,
// not concrete implementations.

// CreatePaymentRequest is re-exported for use in HTTP handlers to avoid
// direct coupling to the model package.
type CreatePaymentRequest = model.CreatePaymentRequest

// TransitionParams groups parameters for PaymentRepository.TransitionStatus
// to keep param count small.
type TransitionParams struct {
	ID   string
	From model.PaymentStatus
	To   model.PaymentStatus
	// Result and Error are applied only on transitions into a terminal
	// state; exactly one of them may be non-nil.
	Result *string
	Error  *string
}

// PaymentRepository defines the interface for payment data operations.
//
// TransitionStatus is a compare-and-swap: it moves the payment from
// params.From to params.To only if the current status equals params.From,
// refreshing updated_at. A caller that loses a concurrent race receives
// ErrStatusConflict from the implementation and must treat the payment as
// already claimed.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	TransitionStatus(ctx context.Context, params TransitionParams) (*model.Payment, error)
}

// IdempotencyIndex maps client idempotency keys to payment ids.
//
// Bind is put-if-absent: it returns the payment id now bound to the key and
// whether this call created the binding. A losing concurrent Bind observes
// created=false and the winner's id.
type IdempotencyIndex interface {
	Bind(ctx context.Context, key, paymentID string) (boundID string, created bool, err error)
	Lookup(ctx context.Context, key string) (paymentID string, ok bool, err error)
}

// EventDedup records inbound webhook event ids.
//
// MarkSeen is an atomic check-and-record: it returns true exactly once per
// event id for the lifetime of the store, regardless of concurrency.
type EventDedup interface {
	MarkSeen(ctx context.Context, eventID string) (firstSeen bool, err error)
}

// Outcome is the result of performing the unit of work for one payment.
type Outcome struct {
	Result string
	Err    error
}

// Performer executes the domain unit of work for a payment. Implementations
// may talk to a real payment provider; the default simulates one. A non-nil
// Outcome.Err is recorded as the failed terminal state, not propagated.
type Performer interface {
	Perform(ctx context.Context, p *model.Payment) Outcome
}

// Notifier delivers a terminal state event to the configured webhook
// endpoint with at-least-once semantics.
type Notifier interface {
	Notify(ctx context.Context, event model.PaymentEvent) error
}

// Scheduler requests that processing run for a payment id at least once,
// decoupled from the caller.
type Scheduler interface {
	Enqueue(id string)
}
