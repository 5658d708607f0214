package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	"github.com/polkiloo/foodcourt/internal/metrics"
	"github.com/polkiloo/foodcourt/internal/storage/memory"
	testhelpers "github.com/polkiloo/foodcourt/internal/test"
)

type fixture struct {
	store   repository.Store
	limiter *testhelpers.LimiterStub
	metrics *metrics.Metrics
	cfg     *config.Config

	auth    *AuthUseCase
	balance *BalanceUseCase
	orders  *OrderUseCase
	admin   *AdminUseCase
	seed    *SeedUseCase
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.New())
}

func newFixtureWithStore(t *testing.T, store repository.Store) *fixture {
	t.Helper()

	f := &fixture{
		store:   store,
		limiter: &testhelpers.LimiterStub{Max: 3},
		metrics: metrics.New(),
		cfg: &config.Config{
			PlaceOrderAttempts: 3,
			AdminUsername:      "Admin",
			AdminPassword:      "Hello",
		},
	}
	hasher := testhelpers.HasherStub{}
	logger := testLogger()

	f.auth = NewAuthUseCase(store, hasher, testhelpers.StrategyStub{}, f.limiter, logger)
	f.balance = NewBalanceUseCase(store)
	f.orders = NewOrderUseCase(store, hasher, f.limiter, f.metrics, f.cfg, logger)
	f.admin = NewAdminUseCase(store, hasher, logger)
	f.seed = NewSeedUseCase(store, hasher, f.cfg, logger)

	if _, err := f.seed.Seed(context.Background(), DefaultStalls()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return f
}

// customer registers username with pin and tops the account up to balance.
func (f *fixture) customer(t *testing.T, username, pin string, balance int64) *model.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := f.auth.Register(ctx, username, pin)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	if balance > 0 {
		if _, err := f.store.Ledger().Credit(ctx, username, decimal.NewFromInt(balance)); err != nil {
			t.Fatalf("credit %s: %v", username, err)
		}
	}
	return acc
}

func (f *fixture) itemID(t *testing.T, stallID, name string) int64 {
	t.Helper()
	stall, err := f.store.Stalls().GetByID(context.Background(), stallID)
	if err != nil {
		t.Fatalf("stall %s: %v", stallID, err)
	}
	for _, item := range stall.Menu {
		if item.Name == name {
			return item.ID
		}
	}
	t.Fatalf("item %s not found in %s", name, stallID)
	return 0
}

func (f *fixture) request(t *testing.T, username, stallID, item string, qty int, total int64) model.PlaceOrderRequest {
	t.Helper()
	return model.PlaceOrderRequest{
		Username:     username,
		StallID:      stallID,
		Lines:        []model.OrderLine{{ItemID: f.itemID(t, stallID, item), Quantity: qty}},
		ClaimedTotal: decimal.NewFromInt(total),
		PIN:          "1234",
	}
}

func (f *fixture) balanceOf(t *testing.T, username string) decimal.Decimal {
	t.Helper()
	b, err := f.balance.Balance(context.Background(), username)
	if err != nil {
		t.Fatalf("balance %s: %v", username, err)
	}
	return b
}

func (f *fixture) pendingEvents(t *testing.T) []model.OrderEvent {
	t.Helper()
	events, err := f.store.Outbox().Claim(context.Background(), 100, time.Minute)
	if err != nil {
		t.Fatalf("claim events: %v", err)
	}
	return events
}

// failingOutboxStore fails every outbox append inside transactions.
type failingOutboxStore struct {
	repository.Store
	err error
}

func (s failingOutboxStore) WithinTransaction(ctx context.Context, fn func(tx repository.Factory) error) error {
	return s.Store.WithinTransaction(ctx, func(tx repository.Factory) error {
		return fn(failingOutboxFactory{Factory: tx, err: s.err})
	})
}

type failingOutboxFactory struct {
	repository.Factory
	err error
}

func (f failingOutboxFactory) Outbox() repository.OutboxRepository { return failingOutbox{err: f.err} }

type failingOutbox struct{ err error }

func (o failingOutbox) Append(context.Context, model.OrderEvent) error { return o.err }

func (o failingOutbox) Claim(context.Context, int, time.Duration) ([]model.OrderEvent, error) {
	return nil, o.err
}

func (o failingOutbox) MarkPublished(context.Context, int64) error { return o.err }
