package domain

import (
	"errors"
	"fmt"
)

// MappingError represents a failure inside the mapping layer: a caller usage
// error or an unsupported operation. Gateway business outcomes (declined,
// rejected, bank-call) are never errors; they travel in Response.
type MappingError struct {
	Code    string
	Message string
	Err     error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *MappingError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingRequiredInput = "MISSING_REQUIRED_INPUT"
	ErrCodeNotImplemented       = "NOT_IMPLEMENTED"
	ErrCodeUnsupportedValue     = "UNSUPPORTED_VALUE"
	ErrCodeInvalidOrder         = "INVALID_ORDER"
)

// NewMissingRequiredInputError signals a violated precondition, e.g. no card
// on an operation that mandates one. Never defaulted away.
func NewMissingRequiredInputError(field string) *MappingError {
	return &MappingError{
		Code:    ErrCodeMissingRequiredInput,
		Message: fmt.Sprintf("required input %s is missing", field),
	}
}

// NewNotImplementedError signals an operation a gateway family does not offer,
// so callers can branch on capability instead of parsing error text.
func NewNotImplementedError(operation string) *MappingError {
	return &MappingError{
		Code:    ErrCodeNotImplemented,
		Message: fmt.Sprintf("operation %s is not implemented by this gateway", operation),
	}
}

// NewUnsupportedValueError signals a translation-table miss for a value the
// gateway was expected to support. This is a programming error, not a
// recoverable runtime condition.
func NewUnsupportedValueError(concept, value string) *MappingError {
	return &MappingError{
		Code:    ErrCodeUnsupportedValue,
		Message: fmt.Sprintf("%s %q is not supported by this gateway", concept, value),
	}
}

func NewInvalidOrderError(err error) *MappingError {
	return &MappingError{
		Code:    ErrCodeInvalidOrder,
		Message: "invalid order data",
		Err:     err,
	}
}

// IsErrorCode reports whether err is a MappingError carrying the given code.
func IsErrorCode(err error, code string) bool {
	var mapErr *MappingError
	if errors.As(err, &mapErr) {
		return mapErr.Code == code
	}
	return false
}
