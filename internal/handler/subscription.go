package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/comanda-app/api/internal/billing"
	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SubscriptionServicer defines the billing methods needed by subscription handlers.
// Satisfied by *billing.Reconciler; narrow interface for testability.
type SubscriptionServicer interface {
	CreateCustomer(ctx context.Context, restaurant database.Restaurant, email string) (database.Restaurant, error)
	CreateSubscription(ctx context.Context, restaurant database.Restaurant, priceID, period string) (database.Restaurant, error)
	CancelSubscription(ctx context.Context, restaurant database.Restaurant) (database.Restaurant, error)
	ReactivateSubscription(ctx context.Context, restaurant database.Restaurant) (database.Restaurant, error)
	CheckSubscription(ctx context.Context, restaurant database.Restaurant) (database.Restaurant, error)
	GetProductPrices(ctx context.Context) ([]billing.Price, error)
}

// SubscriptionHandler handles the restaurant's plan and billing endpoints.
type SubscriptionHandler struct {
	svc SubscriptionServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc SubscriptionServicer) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// RegisterRoutes registers subscription endpoints. Mounted at /subscription.
func (h *SubscriptionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/", h.Create)
	r.Post("/customer", h.CreateCustomer)
	r.Post("/cancel", h.Cancel)
	r.Post("/reactivate", h.Reactivate)
	r.Post("/check", h.Check)
	r.Get("/prices", h.Prices)
}

// --- Request / Response types ---

type createSubscriptionRequest struct {
	PriceID       string `json:"price_id"`
	BillingPeriod string `json:"billing_period"`
}

type subscriptionResponse struct {
	Tier               string     `json:"tier"`
	StripeCustomerID   *string    `json:"stripe_customer_id"`
	SubscriptionID     *string    `json:"subscription_id"`
	IsTrial            bool       `json:"is_trial"`
	TrialEnd           *time.Time `json:"trial_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	BillingPeriod      *string    `json:"billing_period"`
	SubscriptionSynced *time.Time `json:"subscription_synced_at"`
}

func toSubscriptionResponse(rest database.Restaurant) subscriptionResponse {
	return subscriptionResponse{
		Tier:               string(rest.SubscriptionTier),
		StripeCustomerID:   textOrNil(rest.StripeCustomerID),
		SubscriptionID:     textOrNil(rest.StripeSubscriptionID),
		IsTrial:            rest.IsTrial,
		TrialEnd:           timeOrNil(rest.TrialEnd),
		CancelAtPeriodEnd:  rest.CancelAtPeriodEnd,
		CurrentPeriodEnd:   timeOrNil(rest.CurrentPeriodEnd),
		BillingPeriod:      textOrNil(rest.BillingPeriod),
		SubscriptionSynced: timeOrNil(rest.SubscriptionSyncedAt),
	}
}

// writeBillingError maps billing errors onto HTTP statuses.
func writeBillingError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, billing.ErrNoCustomer),
		errors.Is(err, billing.ErrNoSubscription),
		errors.Is(err, billing.ErrSubscriptionExists),
		errors.Is(err, billing.ErrInvalidBillingPeriod),
		errors.Is(err, billing.ErrPriceRequired),
		errors.Is(err, billing.ErrEmailRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, billing.ErrProvider):
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "billing provider unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "request timed out, please retry"})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// --- Handlers ---

// Get returns the stored subscription state without calling the provider.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(restaurant))
}

// CreateCustomer links a billing customer using the caller's email.
func (h *SubscriptionHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	email := ""
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		email = claims.Email
	}

	updated, err := h.svc.CreateCustomer(r.Context(), restaurant, email)
	if err != nil {
		writeBillingError(w, "create billing customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(updated))
}

// Create starts a subscription (with the configured trial) for a price.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.CreateSubscription(r.Context(), restaurant,
		strings.TrimSpace(req.PriceID), strings.TrimSpace(req.BillingPeriod))
	if err != nil {
		writeBillingError(w, "create subscription", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubscriptionResponse(updated))
}

// Cancel schedules cancellation at the end of the current period.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.CancelSubscription(r.Context(), restaurant)
	if err != nil {
		writeBillingError(w, "cancel subscription", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(updated))
}

// Reactivate clears a scheduled cancellation.
func (h *SubscriptionHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.ReactivateSubscription(r.Context(), restaurant)
	if err != nil {
		writeBillingError(w, "reactivate subscription", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(updated))
}

// Check refreshes the stored state from the provider.
func (h *SubscriptionHandler) Check(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.CheckSubscription(r.Context(), restaurant)
	if err != nil {
		writeBillingError(w, "check subscription", err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(updated))
}

// Prices lists the recurring prices of the configured product.
func (h *SubscriptionHandler) Prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.svc.GetProductPrices(r.Context())
	if err != nil {
		writeBillingError(w, "list prices", err)
		return
	}
	if prices == nil {
		prices = []billing.Price{}
	}
	writeJSON(w, http.StatusOK, prices)
}
