// Package model defines the core data types for the paymentd processing system.
package model

import (
	"errors"
	"strings"
	"time"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	// PaymentStatusPending indicates a payment has been accepted and is waiting to be processed.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusProcessing indicates a payment is currently being processed.
	PaymentStatusProcessing PaymentStatus = "processing"
	// PaymentStatusSucceeded indicates processing finished successfully.
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	// PaymentStatusFailed indicates processing finished with a failure outcome.
	PaymentStatusFailed PaymentStatus = "failed"
)

// Valid returns true if the PaymentStatus is a known lifecycle state.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusProcessing ||
		s == PaymentStatusSucceeded || s == PaymentStatusFailed
}

// Terminal returns true if the status has no outgoing transitions.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusFailed
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// The state machine is strictly ordered: pending -> processing -> succeeded|failed.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusProcessing
	case PaymentStatusProcessing:
		return next == PaymentStatusSucceeded || next == PaymentStatusFailed
	default:
		return false
	}
}

// Payment represents a submitted payment and its processing outcome.
type Payment struct {
	ID         string        `json:"id"               db:"id"`
	Status     PaymentStatus `json:"status"           db:"status"`
	Amount     int64         `json:"amount"           db:"amount"`
	Currency   string        `json:"currency"         db:"currency"`
	CustomerID string        `json:"customer_id"      db:"customer_id"`
	Result     *string       `json:"result,omitempty" db:"result"`
	Error      *string       `json:"error,omitempty"  db:"error"`
	CreatedAt  time.Time     `json:"created_at"       db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"       db:"updated_at"`
}

// CreatePaymentRequest represents a request to submit a new payment.
type CreatePaymentRequest struct {
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	CustomerID string `json:"customer_id"`
}

// Validate validates the CreatePaymentRequest fields.
func (r *CreatePaymentRequest) Validate() error {
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if len(strings.TrimSpace(r.Currency)) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if strings.TrimSpace(r.CustomerID) == "" {
		return errors.New("customer id is required")
	}
	return nil
}

// NormalizedCurrency returns the uppercased currency code.
func (r *CreatePaymentRequest) NormalizedCurrency() string {
	return strings.ToUpper(strings.TrimSpace(r.Currency))
}
