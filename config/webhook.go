package config

import "time"

// WebhookConfig contains outbound webhook configuration.
type WebhookConfig struct {
	// URL is the endpoint terminal payment events are POSTed to. When
	// empty, outbound notification is disabled.
	URL string `env:"WEBHOOK_URL" envDefault:"http://127.0.0.1:8080/api/webhooks/payment-events"`

	// MaxAttempts bounds delivery attempts per event.
	MaxAttempts int `env:"WEBHOOK_MAX_ATTEMPTS" envDefault:"3"`

	// Backoff is the wait schedule between attempts, indexed by the
	// failed attempt number.
	Backoff []time.Duration `env:"WEBHOOK_BACKOFF" envDefault:"1s,2s,4s"`

	// Timeout applies to each delivery attempt.
	Timeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`

	// BodyExpr is an optional JMESPath expression reshaping the outbound
	// event document.
	BodyExpr string `env:"WEBHOOK_BODY_EXPR" envDefault:""`
}

// Sanitize applies guardrails to webhook configuration values.
func (w *WebhookConfig) Sanitize() {
	if w.MaxAttempts <= 0 {
		w.MaxAttempts = 3
	}
	if len(w.Backoff) == 0 {
		w.Backoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	}
	for i, d := range w.Backoff {
		if d < 0 {
			w.Backoff[i] = 0
		}
	}
	if w.Timeout <= 0 {
		w.Timeout = 5 * time.Second
	}
}
