package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a customer holding a prepaid balance.
type Account struct {
	ID        int64
	UID       string
	Username  string
	PINHash   string
	Balance   decimal.Decimal
	Blocked   bool
	CreatedAt time.Time
}

// LedgerEntry is a point-in-time view of an account locked for a balance mutation.
type LedgerEntry struct {
	Username string
	Balance  decimal.Decimal
	Blocked  bool
}

// Admin is an operator account.
type Admin struct {
	Username     string
	PasswordHash string
}
