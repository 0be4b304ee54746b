package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodePaymentDeclined   = "PAYMENT_DECLINED"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation with a stable code that the
// handler layer maps to an HTTP status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Not enough stock to fulfil the request")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty, nothing to checkout")
	ErrPaymentDeclined   = NewDomainError(ErrCodePaymentDeclined, "Payment was declined")
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrNotProductOwner   = NewDomainError(ErrCodeForbidden, "Only the listing seller can edit this product")
)
