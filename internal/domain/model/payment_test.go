package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_Valid(t *testing.T) {
	assert.True(t, PaymentStatusPending.Valid())
	assert.True(t, PaymentStatusProcessing.Valid())
	assert.True(t, PaymentStatusSucceeded.Valid())
	assert.True(t, PaymentStatusFailed.Valid())
	assert.False(t, PaymentStatus("unknown").Valid())
	assert.False(t, PaymentStatus("").Valid())
}

func TestPaymentStatus_Terminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.Terminal())
	assert.False(t, PaymentStatusProcessing.Terminal())
	assert.True(t, PaymentStatusSucceeded.Terminal())
	assert.True(t, PaymentStatusFailed.Terminal())
}

func TestPaymentStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"pending to processing", PaymentStatusPending, PaymentStatusProcessing, true},
		{"pending to succeeded skips processing", PaymentStatusPending, PaymentStatusSucceeded, false},
		{"pending to failed skips processing", PaymentStatusPending, PaymentStatusFailed, false},
		{"processing to succeeded", PaymentStatusProcessing, PaymentStatusSucceeded, true},
		{"processing to failed", PaymentStatusProcessing, PaymentStatusFailed, true},
		{"processing back to pending", PaymentStatusProcessing, PaymentStatusPending, false},
		{"succeeded is final", PaymentStatusSucceeded, PaymentStatusFailed, false},
		{"failed is final", PaymentStatusFailed, PaymentStatusProcessing, false},
		{"terminal self transition", PaymentStatusSucceeded, PaymentStatusSucceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestCreatePaymentRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         CreatePaymentRequest
		expectError bool
	}{
		{
			name: "valid request",
			req:  CreatePaymentRequest{Amount: 1999, Currency: "USD", CustomerID: "cus_1"},
		},
		{
			name: "lowercase currency accepted",
			req:  CreatePaymentRequest{Amount: 1, Currency: "eur", CustomerID: "cus_1"},
		},
		{
			name:        "zero amount",
			req:         CreatePaymentRequest{Amount: 0, Currency: "USD", CustomerID: "cus_1"},
			expectError: true,
		},
		{
			name:        "negative amount",
			req:         CreatePaymentRequest{Amount: -5, Currency: "USD", CustomerID: "cus_1"},
			expectError: true,
		},
		{
			name:        "currency too short",
			req:         CreatePaymentRequest{Amount: 100, Currency: "US", CustomerID: "cus_1"},
			expectError: true,
		},
		{
			name:        "currency too long",
			req:         CreatePaymentRequest{Amount: 100, Currency: "USDX", CustomerID: "cus_1"},
			expectError: true,
		},
		{
			name:        "missing customer id",
			req:         CreatePaymentRequest{Amount: 100, Currency: "USD", CustomerID: "  "},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreatePaymentRequest_NormalizedCurrency(t *testing.T) {
	req := CreatePaymentRequest{Currency: " usd "}
	assert.Equal(t, "USD", req.NormalizedCurrency())
}
