// Package billing keeps a restaurant's subscription fields in sync with the
// billing provider, from signed webhooks and from direct API calls.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stripe/stripe-go/v76"
)

var (
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrCustomerNotLinked    = errors.New("no restaurant linked to billing customer")
	ErrNoCustomer           = errors.New("restaurant has no billing customer")
	ErrNoSubscription       = errors.New("no active subscription found")
	ErrSubscriptionExists   = errors.New("restaurant already has a subscription")
	ErrInvalidBillingPeriod = errors.New("billing period must be monthly, semester or yearly")
	ErrPriceRequired        = errors.New("price_id is required")
	ErrEmailRequired        = errors.New("user email is required")
	ErrMalformedEvent       = errors.New("malformed webhook event")
	ErrProvider             = errors.New("billing provider error")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store defines the DB methods needed by the reconciler.
// Satisfied by *database.Queries (and its WithTx variant).
type Store interface {
	GetRestaurantByStripeCustomer(ctx context.Context, stripeCustomerID pgtype.Text) (database.Restaurant, error)
	SetStripeCustomerID(ctx context.Context, arg database.SetStripeCustomerIDParams) (database.Restaurant, error)
	ApplySubscriptionState(ctx context.Context, arg database.ApplySubscriptionStateParams) (database.Restaurant, error)
	CreateBillingWebhookEvent(ctx context.Context, arg database.CreateBillingWebhookEventParams) (database.BillingWebhookEvent, error)
	GetBillingWebhookEvent(ctx context.Context, arg database.GetBillingWebhookEventParams) (database.BillingWebhookEvent, error)
	MarkBillingWebhookEventProcessed(ctx context.Context, arg database.MarkBillingWebhookEventProcessedParams) (database.BillingWebhookEvent, error)
}

// NewStore creates a Store from a DBTX (pool or tx).
type NewStore func(db database.DBTX) Store

// Provider is the subset of the billing provider API the reconciler calls.
type Provider interface {
	CreateCustomer(ctx context.Context, email, name string, restaurantID uuid.UUID) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID, billingPeriod string, trialDays int) (*stripe.Subscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*stripe.Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
	ListPrices(ctx context.Context, productID string) ([]*stripe.Price, error)
}

// Config holds the provider settings the reconciler needs.
type Config struct {
	WebhookSecret string
	ProductID     string
	TrialDays     int
}

// Reconciler maps webhook events and direct subscription calls onto the
// restaurant's tier fields through one code path.
type Reconciler struct {
	pool     TxBeginner
	newStore NewStore
	provider Provider
	cfg      Config
	now      func() time.Time
}

// NewReconciler creates a Reconciler. provider may be nil when no secret key
// is configured; direct calls then fail with ErrProvider.
func NewReconciler(pool TxBeginner, newStore NewStore, provider Provider, cfg Config) *Reconciler {
	return &Reconciler{pool: pool, newStore: newStore, provider: provider, cfg: cfg, now: time.Now}
}

// subscriptionState converts a provider subscription into restaurant fields.
// Ended subscriptions map to the free tier.
func subscriptionState(sub *stripe.Subscription, syncedAt time.Time) database.ApplySubscriptionStateParams {
	if sub == nil || isEnded(sub.Status) {
		return freeState(customerID(sub), syncedAt)
	}

	state := database.ApplySubscriptionStateParams{
		SubscriptionTier:     database.SubscriptionTierPro,
		StripeSubscriptionID: pgtype.Text{String: sub.ID, Valid: true},
		IsTrial:              sub.Status == stripe.SubscriptionStatusTrialing,
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		SyncedAt:             pgtype.Timestamptz{Time: syncedAt, Valid: true},
		StripeCustomerID:     pgtype.Text{String: customerID(sub), Valid: true},
	}
	if sub.TrialEnd != 0 {
		state.TrialEnd = unixTimestamptz(sub.TrialEnd)
	}
	if sub.CurrentPeriodEnd != 0 {
		state.CurrentPeriodEnd = unixTimestamptz(sub.CurrentPeriodEnd)
	}
	if period := billingPeriod(sub); period != "" {
		state.BillingPeriod = pgtype.Text{String: period, Valid: true}
	}
	return state
}

func freeState(customer string, syncedAt time.Time) database.ApplySubscriptionStateParams {
	return database.ApplySubscriptionStateParams{
		SubscriptionTier: database.SubscriptionTierFree,
		SyncedAt:         pgtype.Timestamptz{Time: syncedAt, Valid: true},
		StripeCustomerID: pgtype.Text{String: customer, Valid: customer != ""},
	}
}

func isEnded(status stripe.SubscriptionStatus) bool {
	switch status {
	case stripe.SubscriptionStatusCanceled,
		stripe.SubscriptionStatusIncompleteExpired,
		stripe.SubscriptionStatusUnpaid:
		return true
	}
	return false
}

func customerID(sub *stripe.Subscription) string {
	if sub == nil || sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}

// billingPeriod prefers the period recorded in metadata at creation and falls
// back to the first item's recurring interval.
func billingPeriod(sub *stripe.Subscription) string {
	if p := sub.Metadata["billing_period"]; enum.IsBillingPeriod(p) {
		return p
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return periodForPrice(sub.Items.Data[0].Price)
}

func periodForPrice(p *stripe.Price) string {
	if p == nil || p.Recurring == nil {
		return ""
	}
	switch {
	case p.Recurring.Interval == stripe.PriceRecurringIntervalMonth && p.Recurring.IntervalCount == 1:
		return enum.BillingPeriodMonthly
	case p.Recurring.Interval == stripe.PriceRecurringIntervalMonth && p.Recurring.IntervalCount == 6:
		return enum.BillingPeriodSemester
	case p.Recurring.Interval == stripe.PriceRecurringIntervalYear && p.Recurring.IntervalCount == 1:
		return enum.BillingPeriodYearly
	}
	return ""
}

func unixTimestamptz(sec int64) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Unix(sec, 0).UTC(), Valid: true}
}
