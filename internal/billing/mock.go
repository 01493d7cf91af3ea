package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockProvider is a billing provider for tests and for running without Stripe.
// Payment intents are kept in memory; repeated idempotency keys return the
// intent created first, as Stripe does.
type MockProvider struct {
	// CreatePaymentIntentFunc overrides the default behavior when set
	CreatePaymentIntentFunc func(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// PaymentIntents stores created intents by ID
	PaymentIntents map[string]*PaymentIntent

	// CallLog tracks method calls for test assertions
	CallLog []string

	mu          sync.Mutex
	idempotency map[string]string
}

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		PaymentIntents: make(map[string]*PaymentIntent),
		CallLog:        []string{},
		idempotency:    make(map[string]string),
	}
}

// CreatePaymentIntent creates an in-memory payment intent.
func (m *MockProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, fmt.Sprintf("CreatePaymentIntent(%d, %s)", params.AmountMinor, params.Currency))

	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, params)
	}

	if params.AmountMinor < MinimumChargeMinor {
		return nil, ErrAmountTooSmall
	}

	if params.IdempotencyKey != "" {
		if id, ok := m.idempotency[params.IdempotencyKey]; ok {
			existing := m.PaymentIntents[id]
			if existing.AmountMinor != params.AmountMinor {
				return nil, ErrIdempotencyConflict
			}
			return existing, nil
		}
	}

	id := "pi_mock_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	pi := &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.New().String()[:8],
		AmountMinor:  params.AmountMinor,
		Currency:     strings.ToUpper(params.Currency),
		Status:       "requires_payment_method",
		Metadata:     params.Metadata,
		CreatedAt:    time.Now().UTC(),
	}

	m.PaymentIntents[pi.ID] = pi
	if params.IdempotencyKey != "" {
		m.idempotency[params.IdempotencyKey] = pi.ID
	}
	return pi, nil
}
