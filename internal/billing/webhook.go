package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const signatureTolerance = 5 * time.Minute

// WebhookResult reports how a delivered event was handled.
type WebhookResult struct {
	EventID   string
	EventType string
	Duplicate bool  // already processed; nothing re-applied
	Applied   bool  // restaurant fields were written
	Err       error // journaled processing error, acknowledged to the provider
}

// HandleWebhook verifies a Stripe event and applies it in one transaction
// together with its journal entry. A returned error means nothing was stored.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if r.cfg.WebhookSecret == "" || signature == "" {
		return nil, ErrInvalidSignature
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, r.cfg.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                signatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := r.newStore(tx)
	res := &WebhookResult{EventID: event.ID, EventType: string(event.Type)}

	journal, err := store.CreateBillingWebhookEvent(ctx, database.CreateBillingWebhookEventParams{
		Provider:        enum.ProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		Payload:         payload,
		SignatureValid:  true,
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal webhook event: %w", err)
		}
		// Redelivery: ON CONFLICT DO NOTHING returned no row.
		journal, err = store.GetBillingWebhookEvent(ctx, database.GetBillingWebhookEventParams{
			Provider:        enum.ProviderStripe,
			ProviderEventID: event.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("get webhook event: %w", err)
		}
		if journal.ProcessedAt.Valid && !journal.ProcessingError.Valid {
			res.Duplicate = true
			return res, nil
		}
	}

	applied, procErr := applyEvent(ctx, store, event)
	if procErr != nil && !errors.Is(procErr, ErrCustomerNotLinked) && !errors.Is(procErr, ErrMalformedEvent) {
		return nil, procErr
	}
	res.Applied = applied
	res.Err = procErr

	mark := database.MarkBillingWebhookEventProcessedParams{ID: journal.ID}
	if procErr != nil {
		mark.ProcessingError = pgtype.Text{String: procErr.Error(), Valid: true}
	}
	if _, err := store.MarkBillingWebhookEventProcessed(ctx, mark); err != nil {
		return nil, fmt.Errorf("mark webhook event processed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	if procErr != nil {
		log.Printf("ERROR: webhook %s (%s): %v", event.ID, event.Type, procErr)
	}
	return res, nil
}

// applyEvent maps one event onto the restaurant. Unknown kinds are ignored.
func applyEvent(ctx context.Context, store Store, event stripe.Event) (bool, error) {
	syncedAt := time.Unix(event.Created, 0).UTC()

	switch string(event.Type) {
	case enum.StripeSubscriptionCreated, enum.StripeSubscriptionUpdated:
		sub, err := decodeSubscription(event)
		if err != nil {
			return false, err
		}
		_, applied, err := applyState(ctx, store, subscriptionState(sub, syncedAt))
		return applied, err

	case enum.StripeSubscriptionDeleted:
		sub, err := decodeSubscription(event)
		if err != nil {
			return false, err
		}
		_, applied, err := applyState(ctx, store, freeState(customerID(sub), syncedAt))
		return applied, err

	case enum.StripeInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := decodeObject(event, &inv); err != nil {
			return false, err
		}
		customer := ""
		if inv.Customer != nil {
			customer = inv.Customer.ID
		}
		log.Printf("billing: payment failed for invoice %s (customer %s)", inv.ID, customer)

	case enum.StripeSubscriptionTrialWillEnd:
		sub, err := decodeSubscription(event)
		if err != nil {
			return false, err
		}
		log.Printf("billing: trial ending for subscription %s (customer %s)", sub.ID, customerID(sub))
	}
	return false, nil
}

// applyState writes state unless a newer state was already applied. The
// returned bool reports whether the row was written.
func applyState(ctx context.Context, store Store, state database.ApplySubscriptionStateParams) (database.Restaurant, bool, error) {
	if !state.StripeCustomerID.Valid {
		return database.Restaurant{}, false, ErrCustomerNotLinked
	}

	restaurant, err := store.ApplySubscriptionState(ctx, state)
	if err == nil {
		return restaurant, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.Restaurant{}, false, fmt.Errorf("apply subscription state: %w", err)
	}

	// No row: either the customer is unknown or the stored state is newer.
	restaurant, err = store.GetRestaurantByStripeCustomer(ctx, state.StripeCustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Restaurant{}, false, fmt.Errorf("%w: %s", ErrCustomerNotLinked, state.StripeCustomerID.String)
		}
		return database.Restaurant{}, false, fmt.Errorf("get restaurant by customer: %w", err)
	}
	return restaurant, false, nil
}

func decodeSubscription(event stripe.Event) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := decodeObject(event, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func decodeObject(event stripe.Event, v any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return fmt.Errorf("%w: %s has no data", ErrMalformedEvent, event.ID)
	}
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedEvent, event.ID, err)
	}
	return nil
}
