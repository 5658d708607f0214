package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrNotFoundOrForbidden = errors.New("not found or forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTotalMismatch       = errors.New("total mismatch")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrRetryable           = errors.New("retryable storage conflict")
	ErrIdempotencyConflict = errors.New("idempotency key already used for a different order")
)

// InsufficientFundsError carries the balance observed when a debit was refused.
type InsufficientFundsError struct {
	Balance decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: current balance %s", ErrInsufficientBalance, e.Balance.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientBalance
}

// Validationf wraps ErrValidation with a human readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
