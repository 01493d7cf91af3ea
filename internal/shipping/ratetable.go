package shipping

import (
	"context"
	"fmt"
	"sort"

	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/shopspring/decimal"
)

// Bracket charges Cost for orders whose subtotal is at least MinSubtotal.
type Bracket struct {
	MinSubtotal decimal.Decimal
	Cost        decimal.Decimal
}

// RateTable is a static, in-memory rate table.
//
// Lookup order: the destination country's brackets, then the brackets of the
// destination's VAT region (domestic, eu, row), then DefaultCost. Within a
// bracket list the bracket with the greatest MinSubtotal not above the
// subtotal wins. A RateTable is read-only after construction.
type RateTable struct {
	rules     *tax.Rules
	countries map[string][]Bracket
	regions   map[tax.Region][]Bracket
}

// RateTableConfig is the raw form of a rate table, keyed by country code and
// region name. Amounts are decimal strings.
type RateTableConfig struct {
	Countries map[string][]BracketConfig `mapstructure:"countries"`
	Regions   map[string][]BracketConfig `mapstructure:"regions"`
}

// BracketConfig is the raw form of a Bracket.
type BracketConfig struct {
	MinSubtotal string `mapstructure:"min_subtotal"`
	Cost        string `mapstructure:"cost"`
}

// NewRateTable validates cfg and builds a rate table. Country codes are
// normalised through rules so aliases such as UK resolve to GB.
func NewRateTable(rules *tax.Rules, cfg RateTableConfig) (*RateTable, error) {
	if rules == nil {
		rules = tax.DefaultRules()
	}

	t := &RateTable{
		rules:     rules,
		countries: make(map[string][]Bracket, len(cfg.Countries)),
		regions:   make(map[tax.Region][]Bracket, len(cfg.Regions)),
	}

	for code, raw := range cfg.Countries {
		country := rules.Normalize(code)
		if len(country) != 2 {
			return nil, fmt.Errorf("country %q: %w", code, ErrInvalidCountry)
		}
		brackets, err := parseBrackets(raw)
		if err != nil {
			return nil, fmt.Errorf("country %s: %w", country, err)
		}
		t.countries[country] = brackets
	}

	for name, raw := range cfg.Regions {
		region := tax.Region(name)
		switch region {
		case tax.RegionDomestic, tax.RegionEU, tax.RegionROW:
		default:
			return nil, fmt.Errorf("region %q: %w", name, ErrUnknownRegion)
		}
		brackets, err := parseBrackets(raw)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", name, err)
		}
		t.regions[region] = brackets
	}

	return t, nil
}

// Estimate looks up the shipping cost for destination and subtotal.
func (t *RateTable) Estimate(ctx context.Context, destination string, subtotal decimal.Decimal) Estimate {
	country := t.rules.Normalize(destination)

	if cost, ok := pick(t.countries[country], subtotal); ok {
		return Estimate{Cost: cost, Matched: true, Rule: "country:" + country}
	}

	region := t.rules.Classify(country)
	if cost, ok := pick(t.regions[region], subtotal); ok {
		return Estimate{Cost: cost, Matched: true, Rule: "region:" + string(region)}
	}

	return Estimate{Cost: DefaultCost, Matched: false, Rule: "default"}
}

// pick returns the cost of the highest bracket whose minimum is <= subtotal.
// Brackets are sorted ascending by MinSubtotal.
func pick(brackets []Bracket, subtotal decimal.Decimal) (decimal.Decimal, bool) {
	for i := len(brackets) - 1; i >= 0; i-- {
		if brackets[i].MinSubtotal.LessThanOrEqual(subtotal) {
			return brackets[i].Cost, true
		}
	}
	return decimal.Zero, false
}

func parseBrackets(raw []BracketConfig) ([]Bracket, error) {
	brackets := make([]Bracket, 0, len(raw))
	for _, rb := range raw {
		minSubtotal := decimal.Zero
		if rb.MinSubtotal != "" {
			v, err := decimal.NewFromString(rb.MinSubtotal)
			if err != nil {
				return nil, ErrInvalidAmount("min_subtotal", rb.MinSubtotal, err)
			}
			minSubtotal = v
		}
		cost, err := decimal.NewFromString(rb.Cost)
		if err != nil {
			return nil, ErrInvalidAmount("cost", rb.Cost, err)
		}

		if minSubtotal.IsNegative() {
			return nil, ErrNegativeThreshold
		}
		if cost.IsNegative() {
			return nil, ErrNegativeCost
		}
		brackets = append(brackets, Bracket{MinSubtotal: minSubtotal, Cost: cost})
	}

	sort.Slice(brackets, func(i, j int) bool {
		return brackets[i].MinSubtotal.LessThan(brackets[j].MinSubtotal)
	})
	for i := 1; i < len(brackets); i++ {
		if brackets[i].MinSubtotal.Equal(brackets[i-1].MinSubtotal) {
			return nil, ErrDuplicateBracket
		}
	}

	return brackets, nil
}
