package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type ledgerRepository struct {
	db querier
}

type tokenSequencer struct {
	db querier
}

func (r *ledgerRepository) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	const query = `SELECT balance FROM accounts WHERE lower(username)=lower($1)`
	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, username).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrors.ErrNotFound
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *ledgerRepository) Lock(ctx context.Context, username string) (*model.LedgerEntry, error) {
	const query = `SELECT username, balance, blocked FROM accounts WHERE lower(username)=lower($1) FOR UPDATE`
	var entry model.LedgerEntry
	if err := r.db.QueryRow(ctx, query, username).Scan(&entry.Username, &entry.Balance, &entry.Blocked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &entry, nil
}

// Debit applies the balance guard inside the UPDATE so concurrent debits of one account
// serialize on its row lock.
func (r *ledgerRepository) Debit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domainErrors.ErrInvalidAmount
	}

	const query = `UPDATE accounts SET balance = balance - $2
                   WHERE lower(username)=lower($1) AND balance >= $2
                   RETURNING balance`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, username, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, mapError(err)
	}

	current, err := r.Balance(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Zero, &domainErrors.InsufficientFundsError{Balance: current}
}

func (r *ledgerRepository) Credit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domainErrors.ErrInvalidAmount
	}

	const query = `UPDATE accounts SET balance = balance + $2 WHERE lower(username)=lower($1) RETURNING balance`
	return r.updateBalance(ctx, query, username, amount)
}

func (r *ledgerRepository) SetBalance(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, domainErrors.ErrInvalidAmount
	}

	const query = `UPDATE accounts SET balance = $2 WHERE lower(username)=lower($1) RETURNING balance`
	return r.updateBalance(ctx, query, username, amount)
}

func (r *ledgerRepository) updateBalance(ctx context.Context, query, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, username, amount).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrors.ErrNotFound
		}
		return decimal.Zero, mapError(err)
	}
	return balance, nil
}

func (s *tokenSequencer) Next(ctx context.Context, stallID string) (int64, error) {
	const query = `INSERT INTO stall_sequences (stall_id, last_token) VALUES ($1, 1)
                   ON CONFLICT (stall_id) DO UPDATE SET last_token = stall_sequences.last_token + 1
                   RETURNING last_token`
	var token int64
	if err := s.db.QueryRow(ctx, query, stallID).Scan(&token); err != nil {
		return 0, mapError(err)
	}
	return token, nil
}
