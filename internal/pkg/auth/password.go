package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrMismatch is returned when a secret does not match its stored hash.
var ErrMismatch = errors.New("secret does not match")

// PasswordHasher defines hashing strategy for credentials.
type PasswordHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Compare(ctx context.Context, hash string, secret string) error
}

// BcryptHasher uses bcrypt to hash secrets. At most limit hash computations run at once.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcryptHasher creates BcryptHasher with provided cost and concurrency limit.
func NewBcryptHasher(cost int, limit int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if limit <= 0 {
		limit = 1
	}
	return &BcryptHasher{cost: cost, sem: semaphore.NewWeighted(int64(limit))}
}

// Hash returns bcrypt hash for provided secret.
func (h *BcryptHasher) Hash(ctx context.Context, secret string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	encoded, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks secret against stored hash.
func (h *BcryptHasher) Compare(ctx context.Context, hash string, secret string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
		return ErrMismatch
	}
	return err
}
