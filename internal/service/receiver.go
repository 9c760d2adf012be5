package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/domain/model"
)

// ReceiverOptions groups dependencies for Receiver.
type ReceiverOptions struct {
	Dedup  core.EventDedup // Required: inbound event id dedup set
	Logger *slog.Logger    // Optional: structured logger
}

// Receiver consumes inbound payment events idempotently. The first delivery
// of an event id is processed; every redelivery is acknowledged as a
// duplicate with no side effects. Duplicates are a normal case, never an
// error.
type Receiver struct {
	dedup  core.EventDedup
	logger *slog.Logger
}

// NewReceiver constructs a new Receiver.
func NewReceiver(opts ReceiverOptions) (*Receiver, error) {
	if opts.Dedup == nil {
		return nil, errors.New("EventDedup is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "webhook_receiver")
	}

	return &Receiver{dedup: opts.Dedup, logger: logger}, nil
}

// MustNewReceiver constructs a new Receiver and panics on error.
func MustNewReceiver(opts ReceiverOptions) *Receiver {
	r, err := NewReceiver(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create Receiver: %v", err))
	}
	return r
}

// Receive records the event id and reports whether this delivery was a
// duplicate. The check-and-record is atomic in the dedup store, so two
// concurrent deliveries of the same id agree on a single first observation.
func (r *Receiver) Receive(ctx context.Context, event *model.PaymentEvent) (bool, error) {
	if event == nil {
		return false, errors.New("event is required")
	}
	if err := event.Validate(); err != nil {
		return false, err
	}

	firstSeen, err := r.dedup.MarkSeen(ctx, event.EventID)
	if err != nil {
		return false, fmt.Errorf("mark event seen: %w", err)
	}

	if r.logger != nil {
		if firstSeen {
			r.logger.InfoContext(ctx, "webhook event received",
				"event_id", event.EventID, "payment_id", event.PaymentID, "type", event.Type)
		} else {
			r.logger.DebugContext(ctx, "duplicate webhook event",
				"event_id", event.EventID)
		}
	}

	// A fuller system would apply first-seen events to its own view of the
	// payment here.
	return !firstSeen, nil
}
