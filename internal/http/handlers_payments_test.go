package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/paymentd/internal/data"
	"github.com/ledgerline/paymentd/internal/domain/model"
	"github.com/ledgerline/paymentd/internal/service"
)

func newTestRouter(t *testing.T) (http.Handler, *data.MemoryPaymentRepo) {
	t.Helper()

	repo := data.NewMemoryPaymentRepo()
	payments, err := service.NewPaymentService(service.PaymentServiceOptions{
		Repo:  repo,
		Index: data.NewMemoryIdempotencyIndex(),
	})
	require.NoError(t, err)

	receiver, err := service.NewReceiver(service.ReceiverOptions{
		Dedup: data.NewMemoryEventDedup(),
	})
	require.NoError(t, err)

	return NewRouter(RouterServices{Payments: payments, Receiver: receiver}), repo
}

func postJSON(t *testing.T, router http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePayment(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/api/payments", map[string]any{
		"amount":      2500,
		"currency":    "usd",
		"customer_id": "cus_42",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payment model.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, int64(2500), payment.Amount)
	assert.Equal(t, "USD", payment.Currency)
}

func TestCreatePayment_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/api/payments", map[string]any{
		"amount":      0,
		"currency":    "usd",
		"customer_id": "cus_42",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown fields are rejected.
	rec = postJSON(t, router, "/api/payments", map[string]any{
		"amount":      100,
		"currency":    "usd",
		"customer_id": "cus_42",
		"extra":       true,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePayment_IdempotencyKey(t *testing.T) {
	router, _ := newTestRouter(t)
	body := map[string]any{"amount": 100, "currency": "usd", "customer_id": "cus_42"}
	headers := map[string]string{IdempotencyKeyHeader: "key-1"}

	first := postJSON(t, router, "/api/payments", body, headers)
	require.Equal(t, http.StatusOK, first.Code)
	second := postJSON(t, router, "/api/payments", body, headers)
	require.Equal(t, http.StatusOK, second.Code)

	var p1, p2 model.Payment
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &p1))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &p2))
	assert.Equal(t, p1.ID, p2.ID)

	// A different key creates a different payment.
	third := postJSON(t, router, "/api/payments", body, map[string]string{IdempotencyKeyHeader: "key-2"})
	require.Equal(t, http.StatusOK, third.Code)
	var p3 model.Payment
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &p3))
	assert.NotEqual(t, p1.ID, p3.ID)
}

func TestGetPayment(t *testing.T) {
	router, repo := newTestRouter(t)

	created := postJSON(t, router, "/api/payments", map[string]any{
		"amount": 100, "currency": "usd", "customer_id": "cus_42",
	}, nil)
	require.Equal(t, http.StatusOK, created.Code)
	var payment model.Payment
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &payment))

	req := httptest.NewRequest(http.MethodGet, "/api/payments/"+payment.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, payment.ID, got.ID)

	// The response reflects the stored state, including terminal fields.
	stored, err := repo.GetByID(req.Context(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Status, got.Status)
}

func TestGetPayment_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "payment_not_found", body["error"])
}
