package dto

import "github.com/shopspring/decimal"

// Money is a decimal amount rendered as a JSON number with two fraction digits.
// It accepts both numbers and numeric strings on input.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}
