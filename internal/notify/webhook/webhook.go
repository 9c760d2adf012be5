// Package webhook delivers payment events to a configured HTTP endpoint
// with bounded retry and a fixed backoff schedule.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/ledgerline/paymentd/internal/domain/model"
)

// ErrExhausted is returned when every delivery attempt has failed.
var ErrExhausted = errors.New("webhook delivery attempts exhausted")

// DefaultBackoff is the wait schedule between attempts, indexed by the
// attempt that just failed (attempt 1 failing waits DefaultBackoff[0], ...).
var DefaultBackoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

const (
	defaultMaxAttempts = 3
	defaultTimeout     = 5 * time.Second
)

// Config captures the outbound webhook behaviour.
type Config struct {
	// EndpointURL is the destination for event POSTs. Required.
	EndpointURL string

	// MaxAttempts bounds delivery attempts per event. Defaults to 3.
	MaxAttempts int

	// Backoff is the wait schedule between attempts. Defaults to
	// DefaultBackoff. Attempts beyond the schedule reuse the last entry.
	Backoff []time.Duration

	// Timeout applies per attempt. Defaults to 5s. Ignored when Client is set.
	Timeout time.Duration

	// BodyExpr is an optional JMESPath expression applied to the event
	// document before posting, for receivers that want a reshaped payload.
	BodyExpr string

	// Client overrides the HTTP client (tests, custom transports).
	Client *http.Client

	// Logger is optional; delivery outcomes are logged when set.
	Logger *slog.Logger

	// Sleep overrides the inter-attempt wait, letting tests observe the
	// schedule without real delays. Defaults to a ctx-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client posts payment events to a single configured endpoint.
type Client struct {
	endpoint    string
	maxAttempts int
	backoff     []time.Duration
	bodyExpr    string
	client      *http.Client
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewClient builds a webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.EndpointURL)
	if endpoint == "" {
		return nil, errors.New("webhook endpoint url is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid webhook endpoint scheme: %s", u.Scheme)
	}

	if cfg.BodyExpr != "" {
		if _, err = jmespath.Compile(cfg.BodyExpr); err != nil {
			return nil, fmt.Errorf("invalid body expression: %w", err)
		}
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	backoff := cfg.Backoff
	if len(backoff) == 0 {
		backoff = DefaultBackoff
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = waitCtx
	}

	var logger *slog.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.With("component", "webhook_notifier")
	}

	return &Client{
		endpoint:    endpoint,
		maxAttempts: attempts,
		backoff:     backoff,
		bodyExpr:    cfg.BodyExpr,
		client:      hc,
		logger:      logger,
		sleep:       sleep,
	}, nil
}

// Notify posts the event until a 2xx response or attempts are exhausted.
// Any non-2xx status, transport error, or per-attempt timeout counts as a
// failed attempt. Exhaustion returns ErrExhausted wrapped with the last
// failure; it is the caller's concern whether to log or ignore it, never a
// reason to revisit the payment's terminal state.
func (c *Client) Notify(ctx context.Context, event model.PaymentEvent) error {
	body, err := c.buildBody(event)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.post(ctx, body)
		if err == nil {
			if c.logger != nil {
				c.logger.InfoContext(ctx, "webhook delivered",
					"event_id", event.EventID, "payment_id", event.PaymentID, "attempt", attempt)
			}
			return nil
		}
		lastErr = err
		if c.logger != nil {
			c.logger.WarnContext(ctx, "webhook delivery attempt failed",
				"event_id", event.EventID, "attempt", attempt, "error", err)
		}

		if attempt < c.maxAttempts {
			if sleepErr := c.sleep(ctx, c.backoffFor(attempt)); sleepErr != nil {
				return sleepErr
			}
		}
	}

	if c.logger != nil {
		c.logger.ErrorContext(ctx, "webhook delivery exhausted retries",
			"event_id", event.EventID, "payment_id", event.PaymentID, "attempts", c.maxAttempts)
	}
	return fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

func (c *Client) buildBody(event model.PaymentEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	if c.bodyExpr == "" {
		return body, nil
	}

	var doc any
	if err = json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode event for body expression: %w", err)
	}
	res, err := jmespath.Search(c.bodyExpr, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate body expression: %w", err)
	}
	derived, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal derived body: %w", err)
	}
	return derived, nil
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// backoffFor returns the wait after the given failed attempt (1-based).
func (c *Client) backoffFor(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(c.backoff) {
		idx = len(c.backoff) - 1
	}
	return c.backoff[idx]
}

func waitCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
