package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodePriceMismatch     = "PRICE_MISMATCH"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyPaid       = "ALREADY_PAID"
	ErrCodeTerminalStatus    = "TERMINAL_STATUS"
	ErrCodeIllegalTransition = "ILLEGAL_TRANSITION"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure that maps to a specific HTTP status
// at the handler boundary. Fields lists the offending request fields for
// validation failures.
type DomainError struct {
	Code    string
	Message string
	Fields  []string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying the list of
// missing or malformed fields.
func NewValidationError(message string, fields ...string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Fields:  fields,
	}
}

// Common domain errors
var (
	ErrOrderNotFound     = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrCakeNotFound      = NewDomainError(ErrCodeNotFound, "Cake not found")
	ErrPriceMismatch     = NewDomainError(ErrCodePriceMismatch, "Submitted total does not match the computed price")
	ErrAlreadyPaid       = NewDomainError(ErrCodeAlreadyPaid, "Payment has already been confirmed for this order")
	ErrTerminalStatus    = NewDomainError(ErrCodeTerminalStatus, "Order is in a terminal status and cannot change")
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Unknown status value")
	ErrIllegalTransition = NewDomainError(ErrCodeIllegalTransition, "Status transition is not allowed by the configured policy")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "Admin role required")
)
