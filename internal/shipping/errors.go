package shipping

import "fmt"

// ============================================================================
// SHIPPING ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.

const (
	codeInvalid = "invalid"
)

// ============================================================================
// SHIPPING ERROR TYPE
// ============================================================================

// ShippingError represents a shipping-specific error with a code and message.
// Estimation itself never fails; these are raised while building rate tables.
type ShippingError struct {
	Code    string
	Message string
}

func (e *ShippingError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ShippingError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *ShippingError) ErrorMessage() string {
	return e.Message
}

func newShippingError(code, message string) *ShippingError {
	return &ShippingError{Code: code, Message: message}
}

// ============================================================================
// SHIPPING DOMAIN ERRORS
// ============================================================================

var (
	// ErrNegativeCost is returned when a rate table bracket has a negative cost.
	ErrNegativeCost = newShippingError(codeInvalid, "Shipping cost must not be negative")

	// ErrNegativeThreshold is returned when a bracket starts below zero.
	ErrNegativeThreshold = newShippingError(codeInvalid, "Bracket minimum subtotal must not be negative")

	// ErrDuplicateBracket is returned when two brackets share a minimum subtotal.
	ErrDuplicateBracket = newShippingError(codeInvalid, "Duplicate bracket minimum subtotal")

	// ErrUnknownRegion is returned for region keys other than domestic, eu and row.
	ErrUnknownRegion = newShippingError(codeInvalid, "Unknown shipping region")

	// ErrInvalidCountry is returned for country keys that are not 2-letter codes.
	ErrInvalidCountry = newShippingError(codeInvalid, "Country must be a 2-letter country code")
)

// ErrInvalidAmount creates an error for an amount that does not parse as a decimal.
func ErrInvalidAmount(field, amount string, err error) error {
	return &ShippingError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("Invalid %s %q: %v", field, amount, err),
	}
}
