package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Provider takes payment for accepted quotes.
// Implementations: StripeProvider, MockProvider
type Provider interface {
	// CreatePaymentIntent creates a payment intent for a one-off charge.
	// Returns the intent with a client secret for frontend confirmation.
	CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)
}

// CreatePaymentIntentParams contains parameters for creating a payment intent.
type CreatePaymentIntentParams struct {
	// AmountMinor is the amount in the currency's minor unit (pence for GBP).
	AmountMinor int64

	// Currency code (ISO 4217), e.g. "gbp"
	Currency string

	// Description appears in the Stripe dashboard.
	Description string

	// Metadata for reconciliation (quote_id, subtotal, shipping, vat, ...)
	Metadata map[string]string

	// IdempotencyKey prevents duplicate intents; the quote ID is used.
	IdempotencyKey string
}

// PaymentIntent is a provider-neutral view of a created payment intent.
type PaymentIntent struct {
	// ID is the provider's intent ID (pi_... for Stripe)
	ID string

	// ClientSecret is used by Stripe.js on the frontend to confirm payment
	ClientSecret string

	AmountMinor int64
	Currency    string

	// Status: requires_payment_method, requires_confirmation, succeeded, ...
	Status string

	Metadata  map[string]string
	CreatedAt time.Time
}

// ToMinorUnits converts a decimal amount to minor units (pence), rounding
// half away from zero at two places.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// MinimumChargeMinor is Stripe's minimum charge for GBP (£0.30).
const MinimumChargeMinor = 30
