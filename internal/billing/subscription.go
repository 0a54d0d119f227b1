package billing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/enum"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stripe/stripe-go/v76"
)

// Price is a purchasable recurring price of the configured product.
type Price struct {
	ID            string `json:"id"`
	Nickname      string `json:"nickname,omitempty"`
	UnitAmount    int64  `json:"unit_amount"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"interval_count"`
	BillingPeriod string `json:"billing_period,omitempty"`
}

// CreateCustomer links a billing customer to the restaurant. An existing link is returned as is.
func (r *Reconciler) CreateCustomer(ctx context.Context, restaurant database.Restaurant, email string) (database.Restaurant, error) {
	if restaurant.StripeCustomerID.Valid {
		return restaurant, nil
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return database.Restaurant{}, ErrEmailRequired
	}
	if r.provider == nil {
		return database.Restaurant{}, fmt.Errorf("%w: not configured", ErrProvider)
	}

	customerID, err := r.provider.CreateCustomer(ctx, email, restaurant.Name, restaurant.ID)
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("%w: create customer: %v", ErrProvider, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	updated, err := r.newStore(tx).SetStripeCustomerID(ctx, database.SetStripeCustomerIDParams{
		StripeCustomerID: pgtype.Text{String: customerID, Valid: true},
		ID:               restaurant.ID,
	})
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("set stripe customer: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return database.Restaurant{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// CreateSubscription starts a subscription with the configured trial and applies it.
func (r *Reconciler) CreateSubscription(ctx context.Context, restaurant database.Restaurant, priceID, period string) (database.Restaurant, error) {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return database.Restaurant{}, ErrPriceRequired
	}
	if !enum.IsBillingPeriod(period) {
		return database.Restaurant{}, ErrInvalidBillingPeriod
	}
	if !restaurant.StripeCustomerID.Valid {
		return database.Restaurant{}, ErrNoCustomer
	}
	if restaurant.StripeSubscriptionID.Valid {
		return database.Restaurant{}, ErrSubscriptionExists
	}
	if r.provider == nil {
		return database.Restaurant{}, fmt.Errorf("%w: not configured", ErrProvider)
	}

	sub, err := r.provider.CreateSubscription(ctx, restaurant.StripeCustomerID.String, priceID, period, r.cfg.TrialDays)
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("%w: create subscription: %v", ErrProvider, err)
	}
	return r.sync(ctx, restaurant, sub)
}

// CancelSubscription cancels at the end of the current period.
func (r *Reconciler) CancelSubscription(ctx context.Context, restaurant database.Restaurant) (database.Restaurant, error) {
	return r.setCancelAtPeriodEnd(ctx, restaurant, true)
}

// ReactivateSubscription undoes a pending cancellation.
func (r *Reconciler) ReactivateSubscription(ctx context.Context, restaurant database.Restaurant) (database.Restaurant, error) {
	return r.setCancelAtPeriodEnd(ctx, restaurant, false)
}

func (r *Reconciler) setCancelAtPeriodEnd(ctx context.Context, restaurant database.Restaurant, cancel bool) (database.Restaurant, error) {
	if !restaurant.StripeSubscriptionID.Valid {
		return database.Restaurant{}, ErrNoSubscription
	}
	if r.provider == nil {
		return database.Restaurant{}, fmt.Errorf("%w: not configured", ErrProvider)
	}

	sub, err := r.provider.SetCancelAtPeriodEnd(ctx, restaurant.StripeSubscriptionID.String, cancel)
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("%w: update subscription: %v", ErrProvider, err)
	}
	return r.sync(ctx, restaurant, sub)
}

// CheckSubscription refreshes the restaurant from the provider's current
// subscription state. Restaurants without a subscription are returned unchanged.
func (r *Reconciler) CheckSubscription(ctx context.Context, restaurant database.Restaurant) (database.Restaurant, error) {
	if !restaurant.StripeSubscriptionID.Valid {
		return restaurant, nil
	}
	if r.provider == nil {
		return database.Restaurant{}, fmt.Errorf("%w: not configured", ErrProvider)
	}

	sub, err := r.provider.GetSubscription(ctx, restaurant.StripeSubscriptionID.String)
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("%w: get subscription: %v", ErrProvider, err)
	}
	return r.sync(ctx, restaurant, sub)
}

// GetProductPrices lists the active recurring prices of the configured product.
func (r *Reconciler) GetProductPrices(ctx context.Context) ([]Price, error) {
	if r.provider == nil || r.cfg.ProductID == "" {
		return nil, fmt.Errorf("%w: not configured", ErrProvider)
	}

	prices, err := r.provider.ListPrices(ctx, r.cfg.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: list prices: %v", ErrProvider, err)
	}

	out := make([]Price, 0, len(prices))
	for _, p := range prices {
		if p == nil || p.Recurring == nil {
			continue
		}
		out = append(out, Price{
			ID:            p.ID,
			Nickname:      p.Nickname,
			UnitAmount:    p.UnitAmount,
			Currency:      string(p.Currency),
			Interval:      string(p.Recurring.Interval),
			IntervalCount: p.Recurring.IntervalCount,
			BillingPeriod: periodForPrice(p),
		})
	}
	return out, nil
}

// sync applies a subscription returned by the provider through the same path as webhooks.
func (r *Reconciler) sync(ctx context.Context, restaurant database.Restaurant, sub *stripe.Subscription) (database.Restaurant, error) {
	state := subscriptionState(sub, r.providerTime(sub))
	// Provider responses may omit the expanded customer.
	state.StripeCustomerID = restaurant.StripeCustomerID

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return database.Restaurant{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	updated, _, err := applyState(ctx, r.newStore(tx), state)
	if err != nil {
		return database.Restaurant{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return database.Restaurant{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// providerTime stamps a direct sync with the provider's clock, read from the
// response Date header, so it orders against webhook event times.
func (r *Reconciler) providerTime(sub *stripe.Subscription) time.Time {
	if sub != nil && sub.LastResponse != nil {
		if t, err := http.ParseTime(sub.LastResponse.Header.Get("Date")); err == nil {
			return t.UTC()
		}
	}
	return r.now().UTC().Truncate(time.Second)
}
