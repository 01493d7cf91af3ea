package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Estimator predicts the shipping charge for an order.
// Implementations: RateTable, MockEstimator
//
// Estimate never fails. When no rate is known for a destination it returns
// DefaultCost with Matched set to false, and the caller decides whether to
// log the miss.
type Estimator interface {
	// Estimate returns the predicted shipping cost for an order of subtotal
	// shipped to destination (the shipping country, never the billing country).
	Estimate(ctx context.Context, destination string, subtotal decimal.Decimal) Estimate
}

// DefaultCost is charged when no rate matches a destination.
var DefaultCost = decimal.Zero

// Estimate is a predicted shipping charge.
type Estimate struct {
	// Cost is never negative.
	Cost decimal.Decimal

	// Matched is false when Cost is the DefaultCost fallback.
	Matched bool

	// Rule names the table entry that produced Cost, e.g. "country:DE" or "region:eu".
	Rule string
}
