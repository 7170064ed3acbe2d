package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrWrongPaymentMethod = errors.New("wrong payment method")
	ErrAlreadyPaid        = errors.New("payment already confirmed")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// ValidationError names the first field that failed order validation; its
// message is shown to the customer as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
