// Package testutil provides testing utilities and helpers for the payment
// processing system.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/paymentd/internal/domain/model"
)

// PaymentRequestBuilder provides a fluent interface for building
// CreatePaymentRequest objects for testing.
type PaymentRequestBuilder struct {
	req *model.CreatePaymentRequest
}

// NewPaymentRequest creates a new PaymentRequestBuilder with sensible defaults.
func NewPaymentRequest() *PaymentRequestBuilder {
	return &PaymentRequestBuilder{
		req: &model.CreatePaymentRequest{
			Amount:     1999,
			Currency:   "USD",
			CustomerID: "cus_test",
		},
	}
}

// WithAmount sets the amount in minor units.
func (b *PaymentRequestBuilder) WithAmount(amount int64) *PaymentRequestBuilder {
	b.req.Amount = amount
	return b
}

// WithCurrency sets the currency code.
func (b *PaymentRequestBuilder) WithCurrency(currency string) *PaymentRequestBuilder {
	b.req.Currency = currency
	return b
}

// WithCustomerID sets the customer identifier.
func (b *PaymentRequestBuilder) WithCustomerID(customerID string) *PaymentRequestBuilder {
	b.req.CustomerID = customerID
	return b
}

// Build returns the constructed request.
func (b *PaymentRequestBuilder) Build() *model.CreatePaymentRequest {
	reqCopy := *b.req
	return &reqCopy
}

// NewPayment returns a payment in the given status with fresh identifiers,
// suitable for seeding a repository directly.
func NewPayment(status model.PaymentStatus) *model.Payment {
	now := time.Now().UTC()
	return &model.Payment{
		ID:         uuid.NewString(),
		Status:     status,
		Amount:     1999,
		Currency:   "USD",
		CustomerID: "cus_test",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewEvent returns a valid inbound payment event for the given payment id.
func NewEvent(paymentID string, status model.PaymentStatus) *model.PaymentEvent {
	result := "rcpt_abc123"
	eventType, _ := model.EventTypeFor(status)
	ev := &model.PaymentEvent{
		EventID:    uuid.NewString(),
		PaymentID:  paymentID,
		Type:       eventType,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
	if status == model.PaymentStatusSucceeded {
		ev.Result = &result
	} else {
		msg := "provider declined or transient internal error"
		ev.Error = &msg
	}
	return ev
}
