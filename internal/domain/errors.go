package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrValidation             = errors.New("validation failed")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrNameConflict           = errors.New("another entry with this name already exists")
	ErrBudgetAlreadyExists    = errors.New("category already has a budget")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrInvalidCategoryKind    = errors.New("invalid category kind")
	ErrInvalidDateRange       = errors.New("invalid date range")
	ErrAmountRequired         = errors.New("amount is required")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrCategoryRequired       = errors.New("category is required")
	ErrDateRequired           = errors.New("date is required")
	ErrPaymentMethodRequired  = errors.New("payment method is required for expenses")
	ErrInvalidTransactionType = errors.New("transaction type must be expense or income")
)

// Validation constants
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 255
)

// FieldError ties a validation sentinel to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap exposes both ErrValidation and the field sentinel to errors.Is.
func (e *FieldError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
