package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// RestaurantStore defines the database methods needed by restaurant handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type RestaurantStore interface {
	UpdateRestaurantProfile(ctx context.Context, arg database.UpdateRestaurantProfileParams) (database.Restaurant, error)
}

// RestaurantHandler serves the caller's restaurant profile.
type RestaurantHandler struct {
	store RestaurantStore
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(store RestaurantStore) *RestaurantHandler {
	return &RestaurantHandler{store: store}
}

// RegisterRoutes registers restaurant endpoints. Mounted at /restaurant.
func (h *RestaurantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

// --- Request / Response types ---

type updateRestaurantRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Address     string `json:"address" validate:"max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
}

type restaurantResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Address              string     `json:"address"`
	PhoneNumber          string     `json:"phone_number"`
	SubscriptionTier     string     `json:"subscription_tier"`
	StripeCustomerID     *string    `json:"stripe_customer_id"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
	IsTrial              bool       `json:"is_trial"`
	TrialEnd             *time.Time `json:"trial_end"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	BillingPeriod        *string    `json:"billing_period"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func toRestaurantResponse(rest database.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:                   rest.ID,
		Name:                 rest.Name,
		Address:              rest.Address,
		PhoneNumber:          rest.PhoneNumber,
		SubscriptionTier:     string(rest.SubscriptionTier),
		StripeCustomerID:     textOrNil(rest.StripeCustomerID),
		StripeSubscriptionID: textOrNil(rest.StripeSubscriptionID),
		IsTrial:              rest.IsTrial,
		TrialEnd:             timeOrNil(rest.TrialEnd),
		CancelAtPeriodEnd:    rest.CancelAtPeriodEnd,
		CurrentPeriodEnd:     timeOrNil(rest.CurrentPeriodEnd),
		BillingPeriod:        textOrNil(rest.BillingPeriod),
		CreatedAt:            rest.CreatedAt,
		UpdatedAt:            rest.UpdatedAt,
	}
}

func timeOrNil(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// --- Handlers ---

// Get returns the caller's restaurant, created on first access by the middleware.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(restaurant))
}

// Update edits the restaurant profile.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := currentRestaurant(w, r)
	if !ok {
		return
	}

	var req updateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationMessage(err)})
		return
	}

	updated, err := h.store.UpdateRestaurantProfile(r.Context(), database.UpdateRestaurantProfileParams{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		ID:          restaurant.ID,
	})
	if err != nil {
		writeStoreError(w, "update restaurant", err)
		return
	}

	writeJSON(w, http.StatusOK, toRestaurantResponse(updated))
}
