package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Region classifies a destination country for VAT purposes.
type Region string

const (
	RegionDomestic Region = "domestic"
	RegionEU       Region = "eu"
	RegionROW      Region = "row"
)

// DefaultHomeCountry is the seller's VAT jurisdiction.
const DefaultHomeCountry = "GB"

// DefaultStandardRate is the home standard VAT rate (20%).
var DefaultStandardRate = decimal.RequireFromString("0.20")

// euMemberStates is the canonical list of EU member states by ISO-3166 alpha-2 code.
var euMemberStates = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI",
	"FR", "DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU",
	"MT", "NL", "PL", "PT", "RO", "SK", "SI", "ES", "SE",
}

// countryAliases maps legacy or VAT-prefix codes onto ISO-3166 codes.
var countryAliases = map[string]string{
	"UK": "GB",
	"EL": "GR", // VAT number prefix for Greece
}

// Rules classifies country codes into VAT regions.
// A Rules value is immutable after construction and safe for concurrent use.
type Rules struct {
	homeCountry  string
	standardRate decimal.Decimal
	eu           map[string]struct{}
}

// DefaultRules returns rules for a GB seller charging 20% standard VAT.
func DefaultRules() *Rules {
	r, _ := NewRules(DefaultHomeCountry, DefaultStandardRate)
	return r
}

// NewRules creates VAT rules for a seller in homeCountry charging
// standardRate on domestic and non-registered EU sales.
func NewRules(homeCountry string, standardRate decimal.Decimal) (*Rules, error) {
	home := normalize(homeCountry)
	if len(home) != 2 {
		return nil, ErrInvalidHomeCountry
	}
	if !standardRate.IsPositive() || standardRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, ErrInvalidRate
	}

	eu := make(map[string]struct{}, len(euMemberStates))
	for _, code := range euMemberStates {
		eu[code] = struct{}{}
	}

	return &Rules{
		homeCountry:  home,
		standardRate: standardRate,
		eu:           eu,
	}, nil
}

// HomeCountry returns the canonical home jurisdiction code.
func (r *Rules) HomeCountry() string {
	return r.homeCountry
}

// StandardRate returns the standard VAT rate as a fraction.
func (r *Rules) StandardRate() decimal.Decimal {
	return r.standardRate
}

// Normalize returns the canonical, upper-case form of a country code.
func (r *Rules) Normalize(countryCode string) string {
	return normalize(countryCode)
}

// Classify places a country code in exactly one region. The domestic check
// runs first; anything not domestic or EU, including unknown codes, is ROW.
func (r *Rules) Classify(countryCode string) Region {
	code := normalize(countryCode)

	if code == r.homeCountry {
		return RegionDomestic
	}
	if _, ok := r.eu[code]; ok {
		return RegionEU
	}
	return RegionROW
}

func normalize(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if canonical, ok := countryAliases[code]; ok {
		return canonical
	}
	return code
}
