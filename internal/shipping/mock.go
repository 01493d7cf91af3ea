package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// MockEstimator is a test implementation of Estimator.
type MockEstimator struct {
	EstimateFunc func(ctx context.Context, destination string, subtotal decimal.Decimal) Estimate

	// Destinations records the destination of every call in order.
	Destinations []string
}

// NewMockEstimator creates a mock that returns a free, matched estimate by default.
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// Estimate delegates to EstimateFunc or returns a zero-cost matched estimate.
func (m *MockEstimator) Estimate(ctx context.Context, destination string, subtotal decimal.Decimal) Estimate {
	m.Destinations = append(m.Destinations, destination)
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, destination, subtotal)
	}
	return Estimate{Cost: decimal.Zero, Matched: true, Rule: "mock"}
}

// FixedEstimator returns an estimator that always charges cost.
func FixedEstimator(cost decimal.Decimal) *MockEstimator {
	return &MockEstimator{
		EstimateFunc: func(context.Context, string, decimal.Decimal) Estimate {
			return Estimate{Cost: cost, Matched: true, Rule: "fixed"}
		},
	}
}
