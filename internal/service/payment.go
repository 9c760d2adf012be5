// Package service provides the business logic layer for the paymentd system.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/domain/model"
)

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Repo      core.PaymentRepository // Required: payment store
	Index     core.IdempotencyIndex  // Required: idempotency key index
	Scheduler core.Scheduler         // Optional: schedules processing after create
	Logger    *slog.Logger           // Optional: structured logger
	Time      data.TimeProvider      // Optional: override clock for tests
}

// PaymentService handles payment submission and retrieval.
//
// Submission is idempotent per client key: repeated submissions with the
// same Idempotency-Key return the original payment unchanged, regardless of
// its current state. Concurrent submissions with the same key are coalesced
// through singleflight so exactly one payment record is ever created.
type PaymentService struct {
	repo      core.PaymentRepository
	index     core.IdempotencyIndex
	scheduler core.Scheduler
	logger    *slog.Logger
	time      data.TimeProvider
	group     singleflight.Group
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(opts PaymentServiceOptions) (*PaymentService, error) {
	if opts.Repo == nil {
		return nil, errors.New("PaymentRepository is required")
	}
	if opts.Index == nil {
		return nil, errors.New("IdempotencyIndex is required")
	}

	tp := opts.Time
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "payment_service")
	}

	return &PaymentService{
		repo:      opts.Repo,
		index:     opts.Index,
		scheduler: opts.Scheduler,
		logger:    logger,
		time:      tp,
	}, nil
}

// MustNewPaymentService constructs a new PaymentService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewPaymentService(opts PaymentServiceOptions) *PaymentService {
	svc, err := NewPaymentService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create PaymentService: %v", err))
	}
	return svc
}

// Create submits a payment. When idempotencyKey is non-empty and already
// bound, the previously created payment is returned unchanged and no
// processing is scheduled. Otherwise a new payment is recorded in the
// pending state, the key (if any) is bound to it, and processing is
// scheduled out-of-band.
func (s *PaymentService) Create(
	ctx context.Context,
	req *model.CreatePaymentRequest,
	idempotencyKey string,
) (*model.Payment, error) {
	if req == nil {
		return nil, errors.New("create payment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if idempotencyKey == "" {
		return s.createAndSchedule(ctx, req, "")
	}

	// Coalesce concurrent same-key submissions in-process; the index's
	// put-if-absent Bind covers racing processes sharing a backend.
	v, err, _ := s.group.Do(idempotencyKey, func() (any, error) {
		return s.createIdempotent(ctx, req, idempotencyKey)
	})
	if err != nil {
		return nil, err
	}
	payment, ok := v.(*model.Payment)
	if !ok {
		return nil, errors.New("unexpected singleflight result type")
	}
	return payment, nil
}

func (s *PaymentService) createIdempotent(
	ctx context.Context,
	req *model.CreatePaymentRequest,
	key string,
) (*model.Payment, error) {
	if boundID, ok, err := s.index.Lookup(ctx, key); err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	} else if ok {
		existing, getErr := s.repo.GetByID(ctx, boundID)
		if getErr == nil {
			if s.logger != nil {
				s.logger.DebugContext(ctx, "idempotent replay", "payment_id", existing.ID)
			}
			return existing, nil
		}
		if !errors.Is(getErr, data.ErrPaymentNotFound) {
			return nil, fmt.Errorf("load payment %s: %w", boundID, getErr)
		}
		// Key points at a record the store no longer has. Not expected in
		// this design; fall through and create a fresh payment.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "idempotency key bound to missing payment",
				"payment_id", boundID)
		}
	}

	return s.createAndSchedule(ctx, req, key)
}

func (s *PaymentService) createAndSchedule(
	ctx context.Context,
	req *model.CreatePaymentRequest,
	key string,
) (*model.Payment, error) {
	now := s.time.Now()
	payment := &model.Payment{
		ID:         uuid.NewString(),
		Status:     model.PaymentStatusPending,
		Amount:     req.Amount,
		Currency:   req.NormalizedCurrency(),
		CustomerID: req.CustomerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	// Bind only after the payment is durably recorded so the key can never
	// point at a record that was not written.
	if key != "" {
		boundID, created, err := s.index.Bind(ctx, key, payment.ID)
		if err != nil {
			return nil, fmt.Errorf("bind idempotency key: %w", err)
		}
		if !created {
			// Another process won the binding; return its payment and let
			// ours sit unreferenced rather than double-charging.
			winner, getErr := s.repo.GetByID(ctx, boundID)
			if getErr != nil {
				return nil, fmt.Errorf("load winning payment %s: %w", boundID, getErr)
			}
			if s.logger != nil {
				s.logger.WarnContext(ctx, "lost idempotency bind race",
					"payment_id", payment.ID, "winning_payment_id", boundID)
			}
			return winner, nil
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "payment created",
			"payment_id", payment.ID,
			"amount", payment.Amount,
			"currency", payment.Currency,
		)
	}

	if s.scheduler != nil {
		s.scheduler.Enqueue(payment.ID)
	}

	return payment, nil
}

// GetByID retrieves a payment by id. Unknown ids yield data.ErrPaymentNotFound.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get payment %s: %w", id, err)
	}
	return payment, nil
}
