package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

func accountKey(username string) string {
	return "account:" + normalize(username)
}

type accountRepository struct {
	repositories
}

func (r *accountRepository) Create(ctx context.Context, username, pinHash string) (*model.Account, error) {
	var created *model.Account
	err := r.s.run(ctx, r.tx, func(tx *txn) error {
		if err := tx.lock(ctx, accountKey(username)); err != nil {
			return err
		}
		if _, exists := tx.account(username); exists {
			return domainErrors.ErrAlreadyExists
		}
		a := &model.Account{
			ID:        r.s.accountSeq.Add(1),
			UID:       formatUID(r.s.uidSeq.Add(1)),
			Username:  username,
			PINHash:   pinHash,
			Balance:   decimal.Zero,
			CreatedAt: r.s.now(),
		}
		tx.stageAccount(a)
		tx.created[normalize(username)] = true
		created = cloneAccount(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var found *model.Account
	err := r.s.run(ctx, r.tx, func(tx *txn) error {
		a, ok := tx.account(username)
		if !ok {
			return domainErrors.ErrNotFound
		}
		found = a
		return nil
	})
	return found, err
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	r.s.mu.RLock()
	result := make([]model.Account, 0, len(r.s.accounts))
	for key, a := range r.s.accounts {
		if r.tx != nil {
			if staged, ok := r.tx.accounts[key]; ok {
				a = staged
			}
		}
		result = append(result, *a)
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for key := range r.tx.created {
			result = append(result, *r.tx.accounts[key])
		}
	}

	slices.SortFunc(result, func(a, b model.Account) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

func (r *accountRepository) SetBlocked(ctx context.Context, username string, blocked bool) error {
	return r.s.run(ctx, r.tx, func(tx *txn) error {
		if err := tx.lock(ctx, accountKey(username)); err != nil {
			return err
		}
		a, ok := tx.account(username)
		if !ok {
			return domainErrors.ErrNotFound
		}
		a.Blocked = blocked
		tx.stageAccount(a)
		return nil
	})
}

func (r *accountRepository) Unblock(ctx context.Context, username, pinHash string) error {
	return r.s.run(ctx, r.tx, func(tx *txn) error {
		if err := tx.lock(ctx, accountKey(username)); err != nil {
			return err
		}
		a, ok := tx.account(username)
		if !ok {
			return domainErrors.ErrNotFound
		}
		a.Blocked = false
		a.PINHash = pinHash
		tx.stageAccount(a)
		return nil
	})
}

type adminRepository struct {
	repositories
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	if r.tx != nil {
		for i := len(r.tx.admins) - 1; i >= 0; i-- {
			if normalize(r.tx.admins[i].Username) == normalize(username) {
				a := r.tx.admins[i]
				return &a, nil
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.admins[normalize(username)]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &a, nil
}

func (r *adminRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	return r.s.run(ctx, r.tx, func(tx *txn) error {
		tx.admins = append(tx.admins, model.Admin{Username: username, PasswordHash: passwordHash})
		return nil
	})
}

type ledgerRepository struct {
	repositories
}

func (r *ledgerRepository) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	a, err := (&accountRepository{r.repositories}).GetByUsername(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}

func (r *ledgerRepository) Lock(ctx context.Context, username string) (*model.LedgerEntry, error) {
	var entry *model.LedgerEntry
	err := r.s.run(ctx, r.tx, func(tx *txn) error {
		if err := tx.lock(ctx, accountKey(username)); err != nil {
			return err
		}
		a, ok := tx.account(username)
		if !ok {
			return domainErrors.ErrNotFound
		}
		entry = &model.LedgerEntry{Username: a.Username, Balance: a.Balance, Blocked: a.Blocked}
		return nil
	})
	return entry, err
}

func (r *ledgerRepository) Debit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domainErrors.ErrInvalidAmount
	}
	return r.mutate(ctx, username, func(a *model.Account) error {
		if a.Balance.LessThan(amount) {
			return &domainErrors.InsufficientFundsError{Balance: a.Balance}
		}
		a.Balance = a.Balance.Sub(amount)
		return nil
	})
}

func (r *ledgerRepository) Credit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domainErrors.ErrInvalidAmount
	}
	return r.mutate(ctx, username, func(a *model.Account) error {
		a.Balance = a.Balance.Add(amount)
		return nil
	})
}

func (r *ledgerRepository) SetBalance(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, domainErrors.ErrInvalidAmount
	}
	return r.mutate(ctx, username, func(a *model.Account) error {
		a.Balance = amount
		return nil
	})
}

func (r *ledgerRepository) mutate(ctx context.Context, username string, fn func(a *model.Account) error) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.s.run(ctx, r.tx, func(tx *txn) error {
		if err := tx.lock(ctx, accountKey(username)); err != nil {
			return err
		}
		a, ok := tx.account(username)
		if !ok {
			return domainErrors.ErrNotFound
		}
		if err := fn(a); err != nil {
			return err
		}
		tx.stageAccount(a)
		balance = a.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

type tokenSequencer struct {
	repositories
}

// Next holds the stall lock until the transaction ends, so tokens commit in issue order
// and a rolled back transaction returns its number.
func (q *tokenSequencer) Next(ctx context.Context, stallID string) (int64, error) {
	var token int64
	err := q.s.run(ctx, q.tx, func(tx *txn) error {
		if err := tx.lock(ctx, "stall:"+stallID); err != nil {
			return err
		}
		if !tx.stallExists(stallID) {
			return domainErrors.ErrNotFound
		}
		last, ok := tx.sequences[stallID]
		if !ok {
			q.s.mu.RLock()
			last = q.s.sequences[stallID]
			q.s.mu.RUnlock()
		}
		token = last + 1
		tx.sequences[stallID] = token
		return nil
	})
	return token, err
}
