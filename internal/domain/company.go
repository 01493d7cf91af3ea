package domain

// CompanyType classifies a trading company. It decides whether distributor
// standard prices apply.
type CompanyType string

const (
	CompanyTypeCustomer    CompanyType = "customer"
	CompanyTypeDistributor CompanyType = "distributor"
	CompanyTypePartner     CompanyType = "partner"
)

// Valid reports whether t is a known company type.
func (t CompanyType) Valid() bool {
	switch t {
	case CompanyTypeCustomer, CompanyTypeDistributor, CompanyTypePartner:
		return true
	}
	return false
}

// HasDistributorPricing reports whether companies of this type are entitled
// to the distributor standard price list.
func (t CompanyType) HasDistributorPricing() bool {
	return t == CompanyTypeDistributor || t == CompanyTypePartner
}

// Company is a trading identity (customer, distributor or partner).
// It is owned by the back-office store and never mutated by pricing code.
type Company struct {
	ID        string
	Name      string
	Type      CompanyType
	VATNumber string // empty when the company has not registered one

	BillingCountry string // ISO-3166 alpha-2
	BillingAddress Address
}

// Address holds billing address fields as stored on the company record.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}
