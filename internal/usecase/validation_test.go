package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"bob", "alice_01", "ABC"}
	invalid := []string{"", "ab", "with space", "dash-name", "émile"}

	for _, name := range valid {
		if err := ValidateUsername(name); err != nil {
			t.Fatalf("expected %q to be valid, got %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := ValidateUsername(name); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected %q to be rejected, got %v", name, err)
		}
	}
}

func TestValidatePIN(t *testing.T) {
	if err := ValidatePIN("0420"); err != nil {
		t.Fatalf("expected valid pin, got %v", err)
	}
	for _, pin := range []string{"", "123", "12345", "12a4", " 1234"} {
		if err := ValidatePIN(pin); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected %q to be rejected, got %v", pin, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.Zero, true); err != nil {
		t.Fatalf("zero must be allowed for absolute balances: %v", err)
	}
	if err := ValidateAmount(decimal.Zero, false); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected zero top-up to be rejected, got %v", err)
	}
	if err := ValidateAmount(decimal.NewFromInt(-1), true); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected negative amount to be rejected, got %v", err)
	}
	if err := ValidateAmount(decimal.RequireFromString("0.001"), false); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected fraction of a cent to be rejected, got %v", err)
	}
	if err := ValidateAmount(decimal.RequireFromString("12.340"), false); err != nil {
		t.Fatalf("expected trailing zero to be accepted: %v", err)
	}
}

func TestNormalizeRequestID(t *testing.T) {
	id, err := normalizeRequestID("  key-1 ")
	if err != nil || id != "key-1" {
		t.Fatalf("unexpected result %q %v", id, err)
	}
	if _, err := normalizeRequestID(strings.Repeat("x", maxRequestIDLen+1)); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected long key to be rejected, got %v", err)
	}
}
