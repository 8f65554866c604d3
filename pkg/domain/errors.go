package domain

import "errors"

// Common domain errors
var (
	// ErrAccountNotFound is returned when an account id or IBAN does not resolve.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound is returned when a transaction id does not resolve.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrAmountMustBePositive is returned when a transaction amount is zero or negative.
	ErrAmountMustBePositive = errors.New("amount must be positive")
	// ErrInvalidFilterDate is returned when a combined-view filter carries a malformed date.
	ErrInvalidFilterDate = errors.New("invalid filter date")
)
