package billing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// LatencyObserver records Stripe API call latency. telemetry.PricingMetrics implements it.
type LatencyObserver interface {
	ObserveStripeCall(operation string, d time.Duration)
	ObservePaymentIntent()
}

// StripeProvider implements Provider using the Stripe API.
// It holds its own key and backend rather than setting stripe.Key globally.
type StripeProvider struct {
	intents  paymentintent.Client
	testMode bool
	logger   *slog.Logger
	observer LatencyObserver
}

// NewStripeProvider creates a Stripe-backed provider.
func NewStripeProvider(cfg StripeConfig, logger *slog.Logger, observer LatencyObserver) (*StripeProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(maxRetries),
	})

	return &StripeProvider{
		intents:  paymentintent.Client{B: backend, Key: cfg.APIKey},
		testMode: cfg.IsTestMode(),
		logger:   logger,
		observer: observer,
	}, nil
}

// CreatePaymentIntent creates a Stripe PaymentIntent with automatic payment methods.
func (s *StripeProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	if params.AmountMinor < MinimumChargeMinor {
		return nil, ErrAmountTooSmall
	}

	currency := strings.ToLower(params.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyGBP)
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.AmountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.Description != "" {
		piParams.Description = stripe.String(params.Description)
	}
	piParams.Context = ctx
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}
	if params.IdempotencyKey != "" {
		piParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	start := time.Now()
	pi, err := s.intents.New(piParams)
	if s.observer != nil {
		s.observer.ObserveStripeCall("create_payment_intent", time.Since(start))
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "stripe payment intent failed",
			slog.Int64("amount_minor", params.AmountMinor),
			slog.String("idempotency_key", params.IdempotencyKey),
			slog.String("error", err.Error()),
		)
		return nil, wrapStripeError(err)
	}

	if s.observer != nil {
		s.observer.ObservePaymentIntent()
	}
	s.logger.InfoContext(ctx, "stripe payment intent created",
		slog.String("payment_intent_id", pi.ID),
		slog.Int64("amount_minor", pi.Amount),
		slog.Bool("test_mode", s.testMode),
	)

	return fromStripePaymentIntent(pi), nil
}

func fromStripePaymentIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
		CreatedAt:    time.Unix(pi.Created, 0).UTC(),
	}
}
