package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/metrics"
	"github.com/polkiloo/foodcourt/internal/storage/memory"
	testhelpers "github.com/polkiloo/foodcourt/internal/test"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

func newFacade(t *testing.T) (*FoodCourtFacade, *testhelpers.PublisherStub) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := memory.New()
	hasher := testhelpers.HasherStub{}
	limiter := &testhelpers.LimiterStub{}
	cfg := &config.Config{PlaceOrderAttempts: 3, AdminUsername: "Admin", AdminPassword: "Hello"}

	if _, err := usecase.NewSeedUseCase(store, hasher, cfg, logger).Seed(context.Background(), usecase.DefaultStalls()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	publisher := &testhelpers.PublisherStub{}
	facade := NewFoodCourtFacade(
		usecase.NewAuthUseCase(store, hasher, testhelpers.StrategyStub{}, limiter, logger),
		usecase.NewBalanceUseCase(store),
		usecase.NewOrderUseCase(store, hasher, limiter, metrics.New(), cfg, logger),
		usecase.NewAdminUseCase(store, hasher, logger),
		store,
		publisher,
	)
	return facade, publisher
}

func TestFoodCourtFacadeOrderFlow(t *testing.T) {
	facade, publisher := newFacade(t)
	ctx := context.Background()

	acc, err := facade.Register(ctx, "alice", "1234")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if acc.UID != "UID_0001" {
		t.Fatalf("unexpected uid %q", acc.UID)
	}
	if _, err := facade.AdminAction(ctx, "Admin", model.AdminCommand{Action: model.ActionTopUp, Username: "alice", Amount: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("topup returned error: %v", err)
	}

	_, token, err := facade.Login(ctx, "alice", "1234")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	session, err := facade.ParseSession(token)
	if err != nil || session.Subject() != "alice" {
		t.Fatalf("unexpected session %v %v", session, err)
	}

	stalls, err := facade.Stalls(ctx)
	if err != nil || len(stalls) != 3 {
		t.Fatalf("expected three seeded stalls, got %d (%v)", len(stalls), err)
	}
	burger := stalls[0].Menu[0]
	if burger.Name != "Burger" {
		t.Fatalf("expected burger first on S101, got %q", burger.Name)
	}

	placed, err := facade.PlaceOrder(ctx, model.PlaceOrderRequest{
		Username:     "alice",
		StallID:      stalls[0].StallID,
		Lines:        []model.OrderLine{{ItemID: burger.ID, Quantity: 1}},
		ClaimedTotal: decimal.NewFromInt(80),
		PIN:          "1234",
	})
	if err != nil {
		t.Fatalf("place returned error: %v", err)
	}
	if placed.TokenNo != 1 || !placed.NewBalance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected placement %+v", placed)
	}

	balance, err := facade.Balance(ctx, "alice")
	if err != nil || !balance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected balance %s (%v)", balance, err)
	}
	if orders, err := facade.CustomerOrders(ctx, "alice"); err != nil || len(orders) != 1 {
		t.Fatalf("expected one customer order, got %d (%v)", len(orders), err)
	}
	if orders, err := facade.StallOrders(ctx, stalls[0].StallID); err != nil || len(orders) != 1 {
		t.Fatalf("expected one stall order, got %d (%v)", len(orders), err)
	}

	served, err := facade.UpdateOrderStatus(ctx, stalls[0].StallID, placed.OrderID, model.OrderStatusServed)
	if err != nil || served.Status != model.OrderStatusServed {
		t.Fatalf("unexpected served order %+v (%v)", served, err)
	}

	events, err := facade.ClaimEvents(ctx, 10, time.Minute)
	if err != nil {
		t.Fatalf("claim returned error: %v", err)
	}
	if len(events) != 2 || events[0].Kind != model.EventOrderPlaced || events[1].Kind != model.EventOrderServed {
		t.Fatalf("unexpected events %+v", events)
	}
	for _, ev := range events {
		if err := facade.PublishEvent(ctx, ev); err != nil {
			t.Fatalf("publish returned error: %v", err)
		}
		if err := facade.MarkEventPublished(ctx, ev.ID); err != nil {
			t.Fatalf("mark returned error: %v", err)
		}
	}
	if got := publisher.Events(); len(got) != 2 {
		t.Fatalf("expected two published events, got %d", len(got))
	}
}

func TestFoodCourtFacadeAdminViews(t *testing.T) {
	facade, _ := newFacade(t)
	ctx := context.Background()

	if _, err := facade.Register(ctx, "bob", "4321"); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, _, err := facade.StallLogin(ctx, "S101", "2134"); err != nil {
		t.Fatalf("stall login returned error: %v", err)
	}
	if _, err := facade.AdminLogin(ctx, "Admin", "Hello"); err != nil {
		t.Fatalf("admin login returned error: %v", err)
	}

	users, err := facade.AdminUsers(ctx)
	if err != nil || len(users) != 1 || users[0].Username != "bob" {
		t.Fatalf("unexpected users %+v (%v)", users, err)
	}
	if orders, err := facade.AdminOrders(ctx); err != nil || len(orders) != 0 {
		t.Fatalf("expected no orders, got %d (%v)", len(orders), err)
	}
	if stalls, err := facade.AdminStalls(ctx); err != nil || len(stalls) != 3 {
		t.Fatalf("expected three stalls, got %d (%v)", len(stalls), err)
	}
	dashboard, err := facade.Dashboard(ctx)
	if err != nil || dashboard.TotalUsers != 1 {
		t.Fatalf("unexpected dashboard %+v (%v)", dashboard, err)
	}
	if err := facade.Ping(ctx); err != nil {
		t.Fatalf("ping returned error: %v", err)
	}
	if facade.SessionTTL() != time.Hour {
		t.Fatalf("unexpected session ttl %v", facade.SessionTTL())
	}
}
