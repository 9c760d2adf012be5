// Package mocks provides mock implementations for testing the payment
// processing system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and port interfaces in internal/core. The generated files
// are checked in so the test suite builds without a generate step.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockPaymentRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for PaymentRepository interface from internal/core package.
// This creates MockPaymentRepository with methods for all PaymentRepository
// interface methods: Create, GetByID, TransitionStatus
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payment_repository_mock.go github.com/ledgerline/paymentd/internal/core PaymentRepository

// Generate mock for IdempotencyIndex interface from internal/core package.
// This creates MockIdempotencyIndex with methods: Bind, Lookup
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=idempotency_index_mock.go github.com/ledgerline/paymentd/internal/core IdempotencyIndex

// Generate mock for Notifier interface from internal/core package.
// This creates MockNotifier with methods: Notify
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notifier_mock.go github.com/ledgerline/paymentd/internal/core Notifier
