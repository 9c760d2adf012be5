package httpx

import (
	"net/http"

	"github.com/ledgerline/paymentd/internal/service"
)

// RouterServices groups the services the router exposes.
type RouterServices struct {
	Payments *service.PaymentService
	Receiver *service.Receiver
}

// NewRouter builds the API routing table.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	payments := &PaymentHandlers{Svc: services.Payments}
	webhooks := &WebhookHandlers{Svc: services.Receiver}

	mux.Handle("POST /api/payments", http.HandlerFunc(payments.CreatePayment))
	mux.Handle("GET /api/payments/{id}", http.HandlerFunc(payments.GetPayment))

	mux.Handle("POST /api/webhooks/payment-events", http.HandlerFunc(webhooks.ReceiveEvent))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}
