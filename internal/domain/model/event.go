package model

import (
	"errors"
	"strings"
	"time"
)

// EventType names the kind of payment event carried by a webhook.
type EventType string

const (
	// EventTypePaymentSucceeded announces a payment that reached the succeeded state.
	EventTypePaymentSucceeded EventType = "payment.succeeded"
	// EventTypePaymentFailed announces a payment that reached the failed state.
	EventTypePaymentFailed EventType = "payment.failed"
)

// Valid returns true if the EventType is a known event name.
func (t EventType) Valid() bool {
	return t == EventTypePaymentSucceeded || t == EventTypePaymentFailed
}

// PaymentEvent is the wire shape of a terminal state notification, both for
// outbound delivery and for the inbound webhook endpoint.
//
// EventID is generated once per logical occurrence at send time; redelivery
// attempts of the same send reuse it so receivers can deduplicate.
type PaymentEvent struct {
	EventID    string        `json:"event_id"`
	PaymentID  string        `json:"payment_id"`
	Type       EventType     `json:"type"`
	Status     PaymentStatus `json:"status"`
	Result     *string       `json:"result,omitempty"`
	Error      *string       `json:"error,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Validate validates an inbound PaymentEvent.
func (e *PaymentEvent) Validate() error {
	if strings.TrimSpace(e.EventID) == "" {
		return errors.New("event id is required")
	}
	if strings.TrimSpace(e.PaymentID) == "" {
		return errors.New("payment id is required")
	}
	if !e.Type.Valid() {
		return errors.New("invalid event type")
	}
	return nil
}

// EventTypeFor maps a terminal payment status to its event name.
func EventTypeFor(status PaymentStatus) (EventType, bool) {
	switch status {
	case PaymentStatusSucceeded:
		return EventTypePaymentSucceeded, true
	case PaymentStatusFailed:
		return EventTypePaymentFailed, true
	default:
		return "", false
	}
}
