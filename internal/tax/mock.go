package tax

import (
	"github.com/shopspring/decimal"
)

// MockResolver is a test implementation of Resolver.
type MockResolver struct {
	ResolveFunc func(taxableAmount decimal.Decimal, countryCode, vatNumber string) (Result, error)

	// Calls records every invocation in order.
	Calls []MockResolveCall
}

// MockResolveCall captures the arguments of one Resolve call.
type MockResolveCall struct {
	TaxableAmount decimal.Decimal
	CountryCode   string
	VATNumber     string
}

// NewMockResolver creates a mock that charges nothing unless ResolveFunc is set.
func NewMockResolver() *MockResolver {
	return &MockResolver{}
}

// Resolve delegates to ResolveFunc or returns a zero-rated domestic result.
func (m *MockResolver) Resolve(taxableAmount decimal.Decimal, countryCode, vatNumber string) (Result, error) {
	m.Calls = append(m.Calls, MockResolveCall{
		TaxableAmount: taxableAmount,
		CountryCode:   countryCode,
		VATNumber:     vatNumber,
	})
	if m.ResolveFunc != nil {
		return m.ResolveFunc(taxableAmount, countryCode, vatNumber)
	}
	return Result{Rate: decimal.Zero, Amount: decimal.Zero, Region: RegionDomestic}, nil
}
