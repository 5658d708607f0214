package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// LedgerRepository is the authoritative store of customer balances.
// Mutations on one account are serialized; different accounts never contend.
type LedgerRepository interface {
	Balance(ctx context.Context, username string) (decimal.Decimal, error)
	// Lock reads the account and holds it until the surrounding transaction ends.
	Lock(ctx context.Context, username string) (*model.LedgerEntry, error)
	// Debit subtracts amount only when the balance covers it, returning the new balance
	// or an *errors.InsufficientFundsError.
	Debit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
}

// TokenSequencer issues strictly increasing token numbers per stall.
type TokenSequencer interface {
	Next(ctx context.Context, stallID string) (int64, error)
}
