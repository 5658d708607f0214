package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/domain/repository"
)

// BalanceUseCase exposes the ledger to customers.
type BalanceUseCase struct {
	store repository.Store
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(store repository.Store) *BalanceUseCase {
	return &BalanceUseCase{store: store}
}

// Balance returns the current balance of username.
func (u *BalanceUseCase) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	return u.store.Ledger().Balance(ctx, username)
}
