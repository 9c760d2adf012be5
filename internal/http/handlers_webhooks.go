package httpx

import (
	"net/http"

	"github.com/ledgerline/paymentd/internal/domain/model"
	"github.com/ledgerline/paymentd/internal/service"
)

// WebhookHandlers provides HTTP handlers for inbound payment events.
type WebhookHandlers struct {
	Svc *service.Receiver
}

// WebhookAck is the acknowledgment for an inbound event. Duplicate is true
// when the event id was seen before; that is a success, not an error.
type WebhookAck struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate"`
}

// ReceiveEvent handles POST /api/webhooks/payment-events.
func (h *WebhookHandlers) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	var event model.PaymentEvent
	if !DecodeJSON(w, r, &event) {
		return
	}
	if err := event.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_event", Err: err})
		return
	}

	duplicate, err := h.Svc.Receive(r.Context(), &event)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "receive_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, WebhookAck{OK: true, Duplicate: duplicate})
}
