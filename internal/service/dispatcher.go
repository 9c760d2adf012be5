package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/data"
)

type advanceFunc func(ctx context.Context, id string) error

// DispatcherOptions groups dependencies for Dispatcher.
type DispatcherOptions struct {
	Processor *Processor   // Required: advances payments
	Workers   int          // Worker goroutines; defaults to 4
	QueueSize int          // Buffered queue length; defaults to 256
	Logger    *slog.Logger // Optional: structured logger
}

// Dispatcher decouples payment submission from processing: Enqueue returns
// immediately and the queued id is advanced at least once by a worker. A
// full queue falls back to a dedicated goroutine rather than blocking the
// submission path.
type Dispatcher struct {
	advance advanceFunc
	workers int
	queue   chan string
	logger  *slog.Logger

	mu      sync.Mutex
	runCtx  context.Context
	started bool

	fallbackWG sync.WaitGroup
}

// NewDispatcher constructs a new Dispatcher.
func NewDispatcher(opts DispatcherOptions) (*Dispatcher, error) {
	if opts.Processor == nil {
		return nil, errors.New("Processor is required")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "dispatcher")
	}

	proc := opts.Processor
	advance := func(ctx context.Context, id string) error {
		_, err := proc.Advance(ctx, id)
		return err
	}

	return &Dispatcher{
		advance: advance,
		workers: workers,
		queue:   make(chan string, queueSize),
		logger:  logger,
	}, nil
}

// MustNewDispatcher constructs a new Dispatcher and panics on error.
func MustNewDispatcher(opts DispatcherOptions) *Dispatcher {
	d, err := NewDispatcher(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create Dispatcher: %v", err))
	}
	return d
}

// Enqueue schedules processing for a payment id. It never blocks: if the
// queue is full the id is advanced on a dedicated goroutine.
func (d *Dispatcher) Enqueue(id string) {
	select {
	case d.queue <- id:
	default:
		ctx := d.baseContext()
		d.fallbackWG.Add(1)
		go func() {
			defer d.fallbackWG.Done()
			d.process(ctx, id)
		}()
	}
}

func (d *Dispatcher) baseContext() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.runCtx != nil {
		return d.runCtx
	}
	return context.Background()
}

// Run starts the worker goroutines and blocks until ctx is cancelled and
// the queue has drained to the extent the workers could pick it up.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return errors.New("dispatcher already running")
	}
	d.started = true
	d.runCtx = context.WithoutCancel(ctx)
	d.mu.Unlock()

	if d.logger != nil {
		d.logger.InfoContext(ctx, "starting dispatcher", "workers", d.workers, "queue", cap(d.queue))
	}

	var wg sync.WaitGroup
	for range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.workerLoop(ctx)
		}()
	}

	wg.Wait()
	d.fallbackWG.Wait()
	return ctx.Err()
}

func (d *Dispatcher) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Drain whatever is already queued before stopping so accepted
			// submissions still get their at-least-once invocation.
			for {
				select {
				case id := <-d.queue:
					d.process(d.baseContext(), id)
				default:
					return
				}
			}
		case id := <-d.queue:
			d.process(ctx, id)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id string) {
	if err := d.advance(ctx, id); err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			if d.logger != nil {
				d.logger.WarnContext(ctx, "queued payment no longer exists", "payment_id", id)
			}
			return
		}
		if d.logger != nil {
			d.logger.ErrorContext(ctx, "advance payment failed", "payment_id", id, "error", err)
		}
	}
}

var _ core.Scheduler = (*Dispatcher)(nil)
