package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/comanda-app/api/internal/billing"
	"github.com/go-chi/chi/v5"
)

const maxWebhookBody = 65536

// WebhookProcessor applies signed billing provider events.
// Satisfied by *billing.Reconciler.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*billing.WebhookResult, error)
}

// WebhookHandler receives provider callbacks. It is mounted outside bearer auth;
// the signature is the only credential.
type WebhookHandler struct {
	processor WebhookProcessor
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// RegisterRoutes registers webhook endpoints on the given Chi router.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhooks/stripe", h.Stripe)
}

// Stripe handles Stripe events. Anything but a signature failure or a storage
// error is acknowledged so Stripe stops retrying.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.processor.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
			return
		}
		log.Printf("ERROR: stripe webhook: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"received":  true,
		"duplicate": res.Duplicate,
	})
}
