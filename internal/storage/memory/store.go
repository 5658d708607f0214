// Package memory implements the repository contracts in process memory.
// Row locks are emulated with per-key locks held until the transaction ends and
// writes are buffered until commit, so readers never observe uncommitted state.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
)

type outboxEntry struct {
	event       model.OrderEvent
	lockedUntil time.Time
	published   bool
}

// Store keeps accounts, stalls, orders and events in memory.
type Store struct {
	repositories

	mu        sync.RWMutex
	locks     map[string]chan struct{}
	accounts  map[string]*model.Account
	admins    map[string]model.Admin
	stalls    map[string]*model.Stall
	sequences map[string]int64
	orders    map[int64]*model.Order
	events    []*outboxEntry

	uidSeq     atomic.Int64
	accountSeq atomic.Int64
	menuSeq    atomic.Int64
	orderSeq   atomic.Int64
	eventSeq   atomic.Int64

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	s := &Store{
		locks:     make(map[string]chan struct{}),
		accounts:  make(map[string]*model.Account),
		admins:    make(map[string]model.Admin),
		stalls:    make(map[string]*model.Stall),
		sequences: make(map[string]int64),
		orders:    make(map[int64]*model.Order),
		now:       time.Now,
	}
	s.repositories = repositories{s: s}
	return s
}

var _ repository.Store = (*Store)(nil)

// WithinTransaction runs fn against repositories sharing one transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repository.Factory) error) error {
	tx := s.begin()
	defer tx.release()

	if err := fn(repositories{s: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func (s *Store) begin() *txn {
	return &txn{
		s:         s,
		held:      make(map[string]chan struct{}),
		accounts:  make(map[string]*model.Account),
		created:   make(map[string]bool),
		sequences: make(map[string]int64),
		served:    make(map[int64]*model.Order),
	}
}

// run executes fn inside tx, or inside a transaction of its own when tx is nil.
func (s *Store) run(ctx context.Context, tx *txn, fn func(tx *txn) error) error {
	if tx != nil {
		return fn(tx)
	}
	return s.WithinTransaction(ctx, func(f repository.Factory) error {
		return fn(f.(repositories).tx)
	})
}

func (s *Store) lockChan(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	return ch
}

func normalize(username string) string {
	return strings.ToLower(username)
}

func formatUID(n int64) string {
	return fmt.Sprintf("UID_%04d", n)
}

func cloneAccount(a *model.Account) *model.Account {
	c := *a
	return &c
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = append([]model.OrderItem(nil), o.Items...)
	if o.ServedAt != nil {
		at := *o.ServedAt
		c.ServedAt = &at
	}
	return &c
}

func cloneStall(st *model.Stall) *model.Stall {
	c := *st
	c.Menu = append([]model.MenuItem(nil), st.Menu...)
	return &c
}

// txn buffers writes and holds key locks until commit or rollback.
type txn struct {
	s    *Store
	held map[string]chan struct{}

	accounts  map[string]*model.Account
	created   map[string]bool
	sequences map[string]int64
	orders    []*model.Order
	served    map[int64]*model.Order
	events    []model.OrderEvent
	admins    []model.Admin
	stalls    []model.Stall
}

// lock acquires key for the rest of the transaction. Re-entrant within one transaction.
func (tx *txn) lock(ctx context.Context, key string) error {
	if _, ok := tx.held[key]; ok {
		return nil
	}
	ch := tx.s.lockChan(key)
	select {
	case ch <- struct{}{}:
		tx.held[key] = ch
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (tx *txn) release() {
	for key, ch := range tx.held {
		<-ch
		delete(tx.held, key)
	}
}

// account returns a private copy of the account as seen by this transaction.
func (tx *txn) account(username string) (*model.Account, bool) {
	key := normalize(username)
	if a, ok := tx.accounts[key]; ok {
		return cloneAccount(a), true
	}
	tx.s.mu.RLock()
	defer tx.s.mu.RUnlock()
	a, ok := tx.s.accounts[key]
	if !ok {
		return nil, false
	}
	return cloneAccount(a), true
}

func (tx *txn) stageAccount(a *model.Account) {
	tx.accounts[normalize(a.Username)] = a
}

func (tx *txn) stallExists(stallID string) bool {
	for _, st := range tx.stalls {
		if st.StallID == stallID {
			return true
		}
	}
	tx.s.mu.RLock()
	defer tx.s.mu.RUnlock()
	_, ok := tx.s.stalls[stallID]
	return ok
}

func (tx *txn) commit() error {
	s := tx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range tx.created {
		if _, exists := s.accounts[key]; exists {
			return fmt.Errorf("%w: account %s", domainErrors.ErrAlreadyExists, key)
		}
	}
	for _, o := range tx.orders {
		if err := s.checkOrderUniqueLocked(o); err != nil {
			return err
		}
	}

	for key, a := range tx.accounts {
		s.accounts[key] = a
	}
	for stallID, last := range tx.sequences {
		s.sequences[stallID] = last
	}
	for _, o := range tx.orders {
		s.orders[o.ID] = o
	}
	for id, o := range tx.served {
		s.orders[id] = o
	}
	for _, ev := range tx.events {
		ev.ID = s.eventSeq.Add(1)
		s.events = append(s.events, &outboxEntry{event: ev})
	}
	for _, a := range tx.admins {
		s.admins[normalize(a.Username)] = a
	}
	for _, st := range tx.stalls {
		s.applyStallLocked(st)
	}
	return nil
}

func (s *Store) checkOrderUniqueLocked(o *model.Order) error {
	for _, existing := range s.orders {
		if existing.StallID == o.StallID && existing.TokenNo == o.TokenNo {
			return fmt.Errorf("%w: token %d of stall %s", domainErrors.ErrAlreadyExists, o.TokenNo, o.StallID)
		}
		if o.RequestID != "" && existing.RequestID == o.RequestID && normalize(existing.Username) == normalize(o.Username) {
			return fmt.Errorf("%w: request %s", domainErrors.ErrAlreadyExists, o.RequestID)
		}
	}
	return nil
}

// applyStallLocked replaces the stall keeping menu item ids stable by position.
func (s *Store) applyStallLocked(st model.Stall) {
	existing := s.stalls[st.StallID]
	menu := make([]model.MenuItem, len(st.Menu))
	for i, item := range st.Menu {
		item.ID = 0
		if existing != nil && i < len(existing.Menu) {
			item.ID = existing.Menu[i].ID
		}
		if item.ID == 0 {
			item.ID = s.menuSeq.Add(1)
		}
		menu[i] = item
	}
	st.Menu = menu
	s.stalls[st.StallID] = &st
}

// repositories binds repository adapters to the store and an optional transaction.
type repositories struct {
	s  *Store
	tx *txn
}

func (r repositories) Accounts() repository.AccountRepository { return &accountRepository{r} }
func (r repositories) Admins() repository.AdminRepository     { return &adminRepository{r} }
func (r repositories) Stalls() repository.StallRepository     { return &stallRepository{r} }
func (r repositories) Ledger() repository.LedgerRepository    { return &ledgerRepository{r} }
func (r repositories) Sequencer() repository.TokenSequencer   { return &tokenSequencer{r} }
func (r repositories) Orders() repository.OrderRepository     { return &orderRepository{r} }
func (r repositories) Outbox() repository.OutboxRepository    { return &outboxRepository{r} }
