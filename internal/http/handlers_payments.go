// Package httpx provides HTTP handlers and utilities for the paymentd API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/ledgerline/paymentd/internal/core"
	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/service"
)

// IdempotencyKeyHeader carries the client-supplied idempotency token.
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandlers provides HTTP handlers for payment submission and retrieval.
type PaymentHandlers struct {
	Svc *service.PaymentService
}

// CreatePayment handles POST /api/payments. The response carries the payment
// in whatever state it currently has; for a repeated Idempotency-Key that is
// the originally created payment, unchanged.
func (h *PaymentHandlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req core.CreatePaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := h.Svc.Create(r.Context(), &req, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}

// GetPayment handles GET /api/payments/{id}.
func (h *PaymentHandlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")},
		)
		return
	}

	payment, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrPaymentNotFound) {
			WriteError(
				w,
				ErrorParams{Code: http.StatusNotFound, ErrCode: "payment_not_found", Err: errors.New("payment not found")},
			)
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}
