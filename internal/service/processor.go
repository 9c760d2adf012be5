package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/domain/model"
)

// ProcessorOptions groups dependencies for Processor.
type ProcessorOptions struct {
	Repo      core.PaymentRepository // Required: payment store
	Performer core.Performer         // Required: unit-of-work implementation
	Notifier  core.Notifier          // Optional: terminal state webhook delivery
	Logger    *slog.Logger           // Optional: structured logger
	Time      data.TimeProvider      // Optional: override clock for tests
}

// Processor advances payments through the lifecycle state machine.
//
// State transitions are compare-and-swapped in the store, so concurrent
// Advance calls for the same id are safe: only the caller that wins the
// pending->processing step performs the unit of work and sends the
// notification; everyone else observes the record where it already is.
type Processor struct {
	repo      core.PaymentRepository
	performer core.Performer
	notifier  core.Notifier
	logger    *slog.Logger
	time      data.TimeProvider

	notifyWG sync.WaitGroup
}

// NewProcessor constructs a new Processor.
func NewProcessor(opts ProcessorOptions) (*Processor, error) {
	if opts.Repo == nil {
		return nil, errors.New("PaymentRepository is required")
	}
	if opts.Performer == nil {
		return nil, errors.New("Performer is required")
	}

	tp := opts.Time
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "processor")
	}

	return &Processor{
		repo:      opts.Repo,
		performer: opts.Performer,
		notifier:  opts.Notifier,
		logger:    logger,
		time:      tp,
	}, nil
}

// MustNewProcessor constructs a new Processor and panics on error.
func MustNewProcessor(opts ProcessorOptions) *Processor {
	p, err := NewProcessor(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create Processor: %v", err))
	}
	return p
}

// Advance runs the lifecycle for the payment id: pending -> processing,
// perform the unit of work, then processing -> succeeded|failed, notifying
// on the terminal transition. Unknown ids yield data.ErrPaymentNotFound.
// Invoked for a payment already past pending it is an idempotent no-op that
// returns the current record.
func (p *Processor) Advance(ctx context.Context, id string) (*model.Payment, error) {
	current, err := p.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load payment %s: %w", id, err)
	}
	if current.Status != model.PaymentStatusPending {
		// Already claimed by another invocation or already terminal.
		return current, nil
	}

	claimed, err := p.repo.TransitionStatus(ctx, core.TransitionParams{
		ID:   id,
		From: model.PaymentStatusPending,
		To:   model.PaymentStatusProcessing,
	})
	if err != nil {
		if errors.Is(err, data.ErrStatusConflict) {
			// Lost the claim race; the winner runs the work.
			return p.repo.GetByID(ctx, id)
		}
		return nil, fmt.Errorf("claim payment %s: %w", id, err)
	}

	if p.logger != nil {
		p.logger.InfoContext(ctx, "payment processing", "payment_id", id)
	}

	outcome := p.performer.Perform(ctx, claimed)

	terminal, err := p.finish(ctx, claimed, outcome)
	if err != nil {
		return nil, err
	}

	p.notifyTerminal(ctx, terminal)
	return terminal, nil
}

func (p *Processor) finish(
	ctx context.Context,
	claimed *model.Payment,
	outcome core.Outcome,
) (*model.Payment, error) {
	params := core.TransitionParams{
		ID:   claimed.ID,
		From: model.PaymentStatusProcessing,
	}
	if outcome.Err != nil {
		msg := outcome.Err.Error()
		params.To = model.PaymentStatusFailed
		params.Error = &msg
	} else {
		result := outcome.Result
		params.To = model.PaymentStatusSucceeded
		params.Result = &result
	}

	terminal, err := p.repo.TransitionStatus(ctx, params)
	if err != nil {
		if errors.Is(err, data.ErrStatusConflict) {
			// Guard: someone else completed the record under us. Do not
			// re-notify; return whatever the store holds.
			return p.repo.GetByID(ctx, claimed.ID)
		}
		return nil, fmt.Errorf("finish payment %s: %w", claimed.ID, err)
	}

	if p.logger != nil {
		p.logger.InfoContext(ctx, "payment processed",
			"payment_id", terminal.ID, "status", terminal.Status)
	}
	return terminal, nil
}

// notifyTerminal delivers the terminal event without blocking the worker
// that is advancing other payments; retries and backoff happen inside the
// notifier. The event id is minted here, once per terminal transition.
func (p *Processor) notifyTerminal(ctx context.Context, payment *model.Payment) {
	if p.notifier == nil || payment == nil || !payment.Status.Terminal() {
		return
	}
	eventType, ok := model.EventTypeFor(payment.Status)
	if !ok {
		return
	}

	event := model.PaymentEvent{
		EventID:    uuid.NewString(),
		PaymentID:  payment.ID,
		Type:       eventType,
		Status:     payment.Status,
		Result:     payment.Result,
		Error:      payment.Error,
		OccurredAt: p.time.Now(),
	}

	notifyCtx := context.WithoutCancel(ctx)
	p.notifyWG.Add(1)
	go func() {
		defer p.notifyWG.Done()
		if err := p.notifier.Notify(notifyCtx, event); err != nil && p.logger != nil {
			p.logger.ErrorContext(notifyCtx, "webhook notification failed",
				"event_id", event.EventID, "payment_id", event.PaymentID, "error", err)
		}
	}()
}

// WaitNotifications blocks until in-flight notification goroutines finish.
// Used by shutdown and tests.
func (p *Processor) WaitNotifications() {
	p.notifyWG.Wait()
}

// SimulatedProviderOptions configures the simulated payment provider.
type SimulatedProviderOptions struct {
	// Delay is how long a simulated charge takes. Zero means no wait.
	Delay time.Duration
	// FailureRate is the probability in [0,1] that a charge is declined.
	FailureRate float64
	// Rand overrides the random source for deterministic tests.
	Rand func() float64
}

// SimulatedProvider is the default Performer: it waits for a bounded
// duration and declines a configurable fraction of charges. Real provider
// integrations implement core.Performer and swap in without touching the
// state machine or the notifier.
type SimulatedProvider struct {
	delay       time.Duration
	failureRate float64
	rand        func() float64
}

// NewSimulatedProvider constructs a SimulatedProvider.
func NewSimulatedProvider(opts SimulatedProviderOptions) *SimulatedProvider {
	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}
	rate := opts.FailureRate
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	return &SimulatedProvider{delay: delay, failureRate: rate, rand: rnd}
}

// Perform simulates the provider charge for one payment.
func (s *SimulatedProvider) Perform(ctx context.Context, p *model.Payment) core.Outcome {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return core.Outcome{Err: ctx.Err()}
		case <-timer.C:
		}
	}

	if s.rand() < s.failureRate {
		return core.Outcome{Err: errors.New("provider declined or transient internal error")}
	}
	return core.Outcome{Result: receiptReference(p.ID)}
}

// receiptReference derives a stable receipt id for a processed payment.
func receiptReference(paymentID string) string {
	compact := strings.ReplaceAll(paymentID, "-", "")
	if len(compact) > 12 {
		compact = compact[:12]
	}
	return "rcpt_" + compact
}

var _ core.Performer = (*SimulatedProvider)(nil)
