package usecase

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
)

const (
	maxLineQuantity = 99
	maxRequestIDLen = 128
	moneyPlaces     = 2
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,}$`)
	pinPattern      = regexp.MustCompile(`^\d{4}$`)
)

// ValidateUsername checks username charset and length.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return domainErrors.Validationf("username must be at least 3 letters, digits or underscores")
	}
	return nil
}

// ValidatePIN checks that pin is exactly four digits.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return domainErrors.Validationf("pin must be 4 digits")
	}
	return nil
}

// ValidateAmount rejects negative amounts, fractions of a cent and, unless zeroAllowed, zero.
func ValidateAmount(amount decimal.Decimal, zeroAllowed bool) error {
	if amount.IsNegative() || (!zeroAllowed && amount.IsZero()) || !wholeCents(amount) {
		return domainErrors.ErrInvalidAmount
	}
	return nil
}

// wholeCents accepts trailing zeros, so 80.000 passes and 0.001 does not.
func wholeCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(moneyPlaces))
}

func normalizeRequestID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if len(id) > maxRequestIDLen {
		return "", domainErrors.Validationf("idempotency key is longer than %d characters", maxRequestIDLen)
	}
	return id, nil
}
