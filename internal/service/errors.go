package service

import (
	"fmt"

	"github.com/dukerupert/tradedesk/internal/domain"
)

// Quote validation errors - use domain.EINVALID
var (
	ErrInvalidLineItem    = domain.Errorf(domain.EINVALID, "", "Invalid line item")
	ErrInvalidQuantity    = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrMissingProductCode = domain.Errorf(domain.EINVALID, "", "Product code is required")
	ErrNoLines            = domain.Errorf(domain.EINVALID, "", "Quote must have at least one line")
	ErrMissingDestination = domain.Errorf(domain.EINVALID, "", "Shipping destination country is required")
	ErrInvalidDestination = domain.Errorf(domain.EINVALID, "", "Shipping destination must be a two-letter country code")
)

// Lookup errors - use domain.ENOTFOUND
var (
	ErrMissingCompany = domain.Errorf(domain.ENOTFOUND, "", "Company not found")
	ErrQuoteNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Quote not found")
)

// Payment errors
var (
	ErrPaymentsDisabled = domain.Errorf(domain.ENOTIMPL, "", "Payments are not enabled")
	ErrZeroTotal        = domain.Errorf(domain.EINVALID, "", "Quote total must be greater than 0 to take payment")
)

// invalidLine builds the error returned for a rejected line. The result
// carries EINVALID with a line-specific message and matches both
// ErrInvalidLineItem and cause through errors.Is.
func invalidLine(op string, index int, productCode string, cause error) error {
	return &domain.Error{
		Code:    domain.EINVALID,
		Op:      op,
		Message: fmt.Sprintf("line %d (%s): %s", index+1, productCode, domain.ErrorMessage(cause)),
		Err:     &lineError{cause: cause},
	}
}

type lineError struct {
	cause error
}

func (e *lineError) Error() string {
	return "invalid line item"
}

func (e *lineError) Unwrap() []error {
	return []error{ErrInvalidLineItem, e.cause}
}
