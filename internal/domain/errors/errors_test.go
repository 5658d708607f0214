package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"validation", ErrValidation},
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"not found or forbidden", ErrNotFoundOrForbidden},
		{"invalid credentials", ErrInvalidCredentials},
		{"forbidden", ErrForbidden},
		{"insufficient balance", ErrInsufficientBalance},
		{"total mismatch", ErrTotalMismatch},
		{"invalid amount", ErrInvalidAmount},
		{"too many attempts", ErrTooManyAttempts},
		{"retryable", ErrRetryable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := fmt.Errorf("debit: %w", &InsufficientFundsError{Balance: decimal.NewFromInt(20)})
	if !stdErrors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected wrapped insufficient balance, got %v", err)
	}
	var funds *InsufficientFundsError
	if !stdErrors.As(err, &funds) {
		t.Fatal("expected InsufficientFundsError to be extractable")
	}
	if !funds.Balance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected balance %s", funds.Balance)
	}
	if !strings.Contains(err.Error(), "20.00") {
		t.Fatalf("expected balance in message, got %q", err.Error())
	}
}

func TestValidationf(t *testing.T) {
	err := Validationf("pin must be %d digits", 4)
	if !stdErrors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "validation failed: pin must be 4 digits" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
