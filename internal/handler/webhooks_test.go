package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/comanda-app/api/internal/billing"
	"github.com/comanda-app/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWebhookProcessor struct {
	payload   []byte
	signature string
	res       *billing.WebhookResult
	err       error
}

func (m *mockWebhookProcessor) HandleWebhook(_ context.Context, payload []byte, signature string) (*billing.WebhookResult, error) {
	m.payload, m.signature = payload, signature
	return m.res, m.err
}

func postWebhook(t *testing.T, proc *mockWebhookProcessor, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.NewWebhookHandler(proc)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/webhooks/stripe", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestWebhook_PassesRawBodyAndSignature(t *testing.T) {
	proc := &mockWebhookProcessor{res: &billing.WebhookResult{EventID: "evt_1", Applied: true}}
	body := `{"id":"evt_1","type":"customer.subscription.updated"}`

	rr := postWebhook(t, proc, body, "t=1,v1=abc")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, body, string(proc.payload))
	assert.Equal(t, "t=1,v1=abc", proc.signature)
	resp := decodeMap(t, rr)
	assert.Equal(t, true, resp["received"])
	assert.Equal(t, false, resp["duplicate"])
}

func TestWebhook_InvalidSignature(t *testing.T) {
	proc := &mockWebhookProcessor{err: fmt.Errorf("%w: no valid signature", billing.ErrInvalidSignature)}

	rr := postWebhook(t, proc, `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhook_DuplicateAcknowledged(t *testing.T) {
	proc := &mockWebhookProcessor{res: &billing.WebhookResult{EventID: "evt_1", Duplicate: true}}

	rr := postWebhook(t, proc, `{}`, "t=1,v1=abc")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeMap(t, rr)["duplicate"])
}

func TestWebhook_UnlinkedCustomerAcknowledged(t *testing.T) {
	proc := &mockWebhookProcessor{res: &billing.WebhookResult{EventID: "evt_2", Err: billing.ErrCustomerNotLinked}}

	rr := postWebhook(t, proc, `{}`, "t=1,v1=abc")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestWebhook_StorageErrorAsksForRetry(t *testing.T) {
	proc := &mockWebhookProcessor{err: errors.New("commit tx: connection reset")}

	rr := postWebhook(t, proc, `{}`, "t=1,v1=abc")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	proc := &mockWebhookProcessor{res: &billing.WebhookResult{}}

	rr := postWebhook(t, proc, strings.Repeat("x", 70000), "t=1,v1=abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, proc.payload)
}
