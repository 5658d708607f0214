package repository

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// AccountRepository describes persistence operations for customer accounts.
type AccountRepository interface {
	// Create inserts an account with zero balance and a sequential uid.
	Create(ctx context.Context, username, pinHash string) (*model.Account, error)
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	SetBlocked(ctx context.Context, username string, blocked bool) error
	// Unblock clears the blocked flag and replaces the PIN hash.
	Unblock(ctx context.Context, username, pinHash string) error
}

// AdminRepository gives access to operator credentials.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Upsert(ctx context.Context, username, passwordHash string) error
}
