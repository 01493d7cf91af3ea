package tax

// ============================================================================
// TAX ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.

const (
	codeInvalid = "invalid"
)

// ============================================================================
// TAX ERROR TYPE
// ============================================================================

// TaxError represents a tax-specific error with a code and message.
type TaxError struct {
	Code    string
	Message string
}

func (e *TaxError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *TaxError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *TaxError) ErrorMessage() string {
	return e.Message
}

func newTaxError(code, message string) *TaxError {
	return &TaxError{Code: code, Message: message}
}

// ============================================================================
// VAT EXEMPTION REASONS
// ============================================================================

const (
	// ExemptReasonReverseCharge applies to EU buyers that supplied a VAT number.
	ExemptReasonReverseCharge = "EU Reverse Charge"

	// ExemptReasonExport applies to shipments outside the home country and the EU.
	ExemptReasonExport = "Export"
)

// ============================================================================
// TAX DOMAIN ERRORS
// ============================================================================

var (
	// ErrNegativeAmount is returned when the taxable amount is below zero.
	ErrNegativeAmount = newTaxError(codeInvalid, "Taxable amount must not be negative")

	// ErrInvalidRate is returned when a configured VAT rate is outside (0, 1).
	ErrInvalidRate = newTaxError(codeInvalid, "VAT rate must be above 0 and below 1")

	// ErrInvalidHomeCountry is returned when the home country is not a 2-letter code.
	ErrInvalidHomeCountry = newTaxError(codeInvalid, "Home country must be a 2-letter country code")
)
