package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"108", 10800},
		{"108.00", 10800},
		{"0.30", 30},
		{"19.995", 2000},
		{"19.994", 1999},
		{"1234.5", 123450},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestMockProvider_CreatePaymentIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates intent with client secret", func(t *testing.T) {
		m := NewMockProvider()
		pi, err := m.CreatePaymentIntent(ctx, CreatePaymentIntentParams{
			AmountMinor:    10800,
			Currency:       "gbp",
			IdempotencyKey: "quote_1",
			Metadata:       map[string]string{"quote_id": "q-1"},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, pi.ID)
		assert.Contains(t, pi.ClientSecret, pi.ID)
		assert.Equal(t, int64(10800), pi.AmountMinor)
		assert.Equal(t, "GBP", pi.Currency)
		assert.Equal(t, "q-1", pi.Metadata["quote_id"])
		assert.Len(t, m.CallLog, 1)
	})

	t.Run("same idempotency key returns same intent", func(t *testing.T) {
		m := NewMockProvider()
		params := CreatePaymentIntentParams{AmountMinor: 5000, Currency: "gbp", IdempotencyKey: "quote_2"}

		first, err := m.CreatePaymentIntent(ctx, params)
		require.NoError(t, err)
		second, err := m.CreatePaymentIntent(ctx, params)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, m.PaymentIntents, 1)
	})

	t.Run("idempotency key reused with different amount", func(t *testing.T) {
		m := NewMockProvider()
		_, err := m.CreatePaymentIntent(ctx, CreatePaymentIntentParams{AmountMinor: 5000, IdempotencyKey: "quote_3"})
		require.NoError(t, err)

		_, err = m.CreatePaymentIntent(ctx, CreatePaymentIntentParams{AmountMinor: 6000, IdempotencyKey: "quote_3"})
		assert.ErrorIs(t, err, ErrIdempotencyConflict)
	})

	t.Run("rejects amounts below the minimum charge", func(t *testing.T) {
		m := NewMockProvider()
		_, err := m.CreatePaymentIntent(ctx, CreatePaymentIntentParams{AmountMinor: 29, Currency: "gbp"})
		assert.ErrorIs(t, err, ErrAmountTooSmall)
	})

	t.Run("custom func overrides default", func(t *testing.T) {
		m := NewMockProvider()
		m.CreatePaymentIntentFunc = func(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
			return nil, ErrPaymentFailed
		}
		_, err := m.CreatePaymentIntent(ctx, CreatePaymentIntentParams{AmountMinor: 5000})
		assert.ErrorIs(t, err, ErrPaymentFailed)
	})
}

func TestStripeConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      StripeConfig
		wantErr  bool
		testMode bool
	}{
		{"missing key", StripeConfig{}, true, false},
		{"publishable key", StripeConfig{APIKey: "pk_test_abc"}, true, false},
		{"test secret key", StripeConfig{APIKey: "sk_test_abc"}, false, true},
		{"live secret key", StripeConfig{APIKey: "sk_live_abc"}, false, false},
		{"restricted test key", StripeConfig{APIKey: "rk_test_abc"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.testMode, tt.cfg.IsTestMode())
		})
	}
}

func TestNewStripeProvider_InvalidConfig(t *testing.T) {
	_, err := NewStripeProvider(StripeConfig{}, nil, nil)
	assert.Error(t, err)
}

func TestStripeProvider_RejectsSmallAmountsLocally(t *testing.T) {
	p, err := NewStripeProvider(StripeConfig{APIKey: "sk_test_abc"}, nil, nil)
	require.NoError(t, err)

	_, err = p.CreatePaymentIntent(context.Background(), CreatePaymentIntentParams{AmountMinor: 10, Currency: "gbp"})
	assert.ErrorIs(t, err, ErrAmountTooSmall)
}

func TestWrapStripeError(t *testing.T) {
	t.Run("stripe error", func(t *testing.T) {
		orig := &stripe.Error{
			Code:           stripe.ErrorCodeCardDeclined,
			Msg:            "Your card was declined.",
			HTTPStatusCode: 402,
			RequestID:      "req_123",
		}

		err := wrapStripeError(orig)

		var se *StripeError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "card_declined", se.Code)
		assert.Equal(t, "req_123", se.RequestID)
		assert.True(t, se.IsDeclined())
		assert.False(t, se.IsTemporary())
		assert.Equal(t, "stripe: Your card was declined. (code: card_declined)", se.Error())
	})

	t.Run("idempotency conflict", func(t *testing.T) {
		err := wrapStripeError(&stripe.Error{Code: stripe.ErrorCodeIdempotencyKeyInUse, Msg: "in use", HTTPStatusCode: 409})
		assert.ErrorIs(t, err, ErrIdempotencyConflict)
	})

	t.Run("server error is temporary", func(t *testing.T) {
		err := wrapStripeError(&stripe.Error{Msg: "oops", HTTPStatusCode: 500})
		var se *StripeError
		require.True(t, errors.As(err, &se))
		assert.True(t, se.IsTemporary())
	})

	t.Run("non-stripe error", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		err := wrapStripeError(cause)
		assert.ErrorIs(t, err, cause)
		var se *StripeError
		assert.False(t, errors.As(err, &se))
	})
}
