package test

import (
	"context"
	"sync"

	"github.com/polkiloo/foodcourt/internal/domain/repository"
)

// FlakyStore wraps a repository.Store and fails the first Failures transactions with Err
// before their work runs.
type FlakyStore struct {
	repository.Store

	mu       sync.Mutex
	Failures int
	Err      error
	Calls    int
}

// WithinTransaction fails while failures remain, then delegates.
func (s *FlakyStore) WithinTransaction(ctx context.Context, fn func(tx repository.Factory) error) error {
	s.mu.Lock()
	s.Calls++
	fail := s.Failures > 0
	if fail {
		s.Failures--
	}
	s.mu.Unlock()

	if fail {
		return s.Err
	}
	return s.Store.WithinTransaction(ctx, fn)
}

// TxCalls returns how many transactions were attempted.
func (s *FlakyStore) TxCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}
