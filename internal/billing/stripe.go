package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider implements Provider with the Stripe API client.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider authenticated with the secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string, restaurantID uuid.UUID) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata("restaurant_id", restaurantID.String())

	c, err := p.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (p *StripeProvider) CreateSubscription(ctx context.Context, customerID, priceID, billingPeriod string, trialDays int) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	if trialDays > 0 {
		params.TrialPeriodDays = stripe.Int64(int64(trialDays))
	}
	params.Context = ctx
	params.AddMetadata("billing_period", billingPeriod)

	return p.api.Subscriptions.New(params)
}

func (p *StripeProvider) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx

	return p.api.Subscriptions.Update(subscriptionID, params)
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	return p.api.Subscriptions.Get(subscriptionID, params)
}

func (p *StripeProvider) ListPrices(ctx context.Context, productID string) ([]*stripe.Price, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx

	var prices []*stripe.Price
	it := p.api.Prices.List(params)
	for it.Next() {
		prices = append(prices, it.Price())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}
