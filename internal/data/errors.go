package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrPaymentNotFound is returned when a payment id is unknown to the store.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPaymentExists is returned when creating a payment with an id that
	// is already present in the store.
	ErrPaymentExists = errors.New("payment already exists")

	// ErrStatusConflict is returned when a status compare-and-swap loses:
	// the payment's current status did not match the expected one.
	ErrStatusConflict = errors.New("payment status conflict")

	// ErrInvalidTransition is returned when a requested transition is not
	// permitted by the payment lifecycle.
	ErrInvalidTransition = errors.New("invalid payment status transition")
)
