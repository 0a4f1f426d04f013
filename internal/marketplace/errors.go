package marketplace

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced to clients. Internal detail (driver errors,
// gateway responses) is never attached to these.
const (
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidOperation       = "INVALID_OPERATION"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodePaymentCreationFailed  = "PAYMENT_CREATION_FAILED"
	CodePaymentExecutionFailed = "PAYMENT_EXECUTION_FAILED"
	CodeInternal               = "INTERNAL_ERROR"
)

// Error is a user-visible domain error with a stable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions satisfies gqlerrors.ExtendedError so the code travels in
// the GraphQL error extensions map.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func ErrUnauthenticated() *Error {
	return newError(CodeUnauthenticated, "You must be logged in to perform this action")
}

func ErrForbidden(message string) *Error {
	return newError(CodeForbidden, message)
}

func ErrNotFound(resource string) *Error {
	return newError(CodeNotFound, resource+" not found")
}

func ErrValidation(message string) *Error {
	return newError(CodeValidation, message)
}

func ErrInvalidOperation(message string) *Error {
	return newError(CodeInvalidOperation, message)
}

func ErrInvalidTransition(from, to string) *Error {
	return newError(CodeInvalidTransition, fmt.Sprintf("cannot transition order from %s to %s", from, to))
}

func ErrInsufficientStock() *Error {
	return newError(CodeInsufficientStock, "insufficient stock for requested quantity")
}

func ErrPaymentCreationFailed() *Error {
	return newError(CodePaymentCreationFailed, "payment could not be created")
}

func ErrPaymentExecutionFailed() *Error {
	return newError(CodePaymentExecutionFailed, "payment could not be executed")
}

func ErrInternal() *Error {
	return newError(CodeInternal, "internal error")
}

// CodeOf extracts the stable code from any error, defaulting to
// INTERNAL_ERROR for unexpected faults.
func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
