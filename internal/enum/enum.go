package enum

// ── Group A: Labels stored as text (CHECK constrained in DB) ──

const (
	BillingPeriodMonthly  = "monthly"
	BillingPeriodSemester = "semester"
	BillingPeriodYearly   = "yearly"
)

// ── Group B: Realtime kitchen feed event types ──

const (
	EventOrderCreated     = "order.created"
	EventOrderClosed      = "order.closed"
	EventOrderDeleted     = "order.deleted"
	EventOrderItemCreated = "order_item.created"
	EventOrderItemUpdated = "order_item.updated"
	EventOrderItemDeleted = "order_item.deleted"
	EventTableUpdated     = "table.updated"
	EventTableDeleted     = "table.deleted"
)

// ── Group C: Billing provider webhook event types ──

const (
	StripeSubscriptionCreated      = "customer.subscription.created"
	StripeSubscriptionUpdated      = "customer.subscription.updated"
	StripeSubscriptionDeleted      = "customer.subscription.deleted"
	StripeSubscriptionTrialWillEnd = "customer.subscription.trial_will_end"
	StripeInvoicePaymentFailed     = "invoice.payment_failed"
)

const ProviderStripe = "stripe"

// IsBillingPeriod reports whether s is one of the supported billing periods.
func IsBillingPeriod(s string) bool {
	switch s {
	case BillingPeriodMonthly, BillingPeriodSemester, BillingPeriodYearly:
		return true
	}
	return false
}
