package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// AuthFacadeStub provides controllable behaviour for authentication endpoints.
type AuthFacadeStub struct {
	RegisterFn   func(context.Context, string, string) (*model.Account, error)
	LoginFn      func(context.Context, string, string) (*model.Account, string, error)
	StallLoginFn func(context.Context, string, string) (*model.Stall, string, error)
	AdminLoginFn func(context.Context, string, string) (string, error)
	ParseFn      func(string) (model.Session, error)
}

// Register delegates to RegisterFn or returns UID_0001.
func (s AuthFacadeStub) Register(ctx context.Context, username, pin string) (*model.Account, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, username, pin)
	}
	return &model.Account{ID: 1, UID: "UID_0001", Username: username}, nil
}

// Login delegates to LoginFn or succeeds with a zero balance.
func (s AuthFacadeStub) Login(ctx context.Context, username, pin string) (*model.Account, string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, pin)
	}
	return &model.Account{ID: 1, UID: "UID_0001", Username: username}, "user-token", nil
}

// StallLogin delegates to StallLoginFn or succeeds for any stall.
func (s AuthFacadeStub) StallLogin(ctx context.Context, stallID, pin string) (*model.Stall, string, error) {
	if s.StallLoginFn != nil {
		return s.StallLoginFn(ctx, stallID, pin)
	}
	return &model.Stall{StallID: stallID, Name: "Stall " + stallID}, "stall-token", nil
}

// AdminLogin delegates to AdminLoginFn or succeeds.
func (s AuthFacadeStub) AdminLogin(ctx context.Context, username, password string) (string, error) {
	if s.AdminLoginFn != nil {
		return s.AdminLoginFn(ctx, username, password)
	}
	return "admin-token", nil
}

// ParseSession maps the tokens issued above back to sessions.
func (s AuthFacadeStub) ParseSession(token string) (model.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	switch token {
	case "stall-token":
		return model.StallOwnerSession{StallID: "S101", StallName: "Tasty Bites"}, nil
	case "admin-token":
		return model.AdminSession{Username: "Admin"}, nil
	case "user-token":
		return model.UserSession{Username: "alice", UID: "UID_0001"}, nil
	}
	return nil, pkgAuth.ErrInvalidToken
}

// SessionTTL returns one hour.
func (s AuthFacadeStub) SessionTTL() time.Duration { return time.Hour }

// CustomerFacadeStub simulates the customer operations.
type CustomerFacadeStub struct {
	StallsFn  func(context.Context) ([]model.Stall, error)
	BalanceFn func(context.Context, string) (decimal.Decimal, error)
	PlaceFn   func(context.Context, model.PlaceOrderRequest) (*model.PlacedOrder, error)
	OrdersFn  func(context.Context, string) ([]model.Order, error)
}

// Stalls returns one stall with a single item by default.
func (s CustomerFacadeStub) Stalls(ctx context.Context) ([]model.Stall, error) {
	if s.StallsFn != nil {
		return s.StallsFn(ctx)
	}
	return []model.Stall{{
		StallID: "S101",
		Name:    "Tasty Bites",
		Menu:    []model.MenuItem{{ID: 1, Name: "Burger", Price: decimal.NewFromInt(80)}},
	}}, nil
}

// Balance returns 100 by default.
func (s CustomerFacadeStub) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, username)
	}
	return decimal.NewFromInt(100), nil
}

// PlaceOrder returns token 1 by default.
func (s CustomerFacadeStub) PlaceOrder(ctx context.Context, req model.PlaceOrderRequest) (*model.PlacedOrder, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, req)
	}
	return &model.PlacedOrder{OrderID: 1, TokenNo: 1, NewBalance: decimal.NewFromInt(20)}, nil
}

// CustomerOrders returns no orders by default.
func (s CustomerFacadeStub) CustomerOrders(ctx context.Context, username string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, username)
	}
	return nil, nil
}

// StallFacadeStub simulates the stall owner's operations.
type StallFacadeStub struct {
	OrdersFn func(context.Context, string) ([]model.Order, error)
	UpdateFn func(context.Context, string, int64, model.OrderStatus) (*model.Order, error)
}

// StallOrders returns no orders by default.
func (s StallFacadeStub) StallOrders(ctx context.Context, stallID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, stallID)
	}
	return nil, nil
}

// UpdateOrderStatus echoes the requested status by default.
func (s StallFacadeStub) UpdateOrderStatus(ctx context.Context, stallID string, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, stallID, orderID, status)
	}
	return &model.Order{ID: orderID, StallID: stallID, Status: status}, nil
}

// AdminFacadeStub simulates administration views and actions.
type AdminFacadeStub struct {
	UsersFn     func(context.Context) ([]model.Account, error)
	OrdersFn    func(context.Context) ([]model.Order, error)
	StallsFn    func(context.Context) ([]model.Stall, error)
	DashboardFn func(context.Context) (*model.Dashboard, error)
	ActionFn    func(context.Context, string, model.AdminCommand) (*model.AdminResult, error)
}

// AdminUsers returns no accounts by default.
func (s AdminFacadeStub) AdminUsers(ctx context.Context) ([]model.Account, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx)
	}
	return nil, nil
}

// AdminOrders returns no orders by default.
func (s AdminFacadeStub) AdminOrders(ctx context.Context) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	return nil, nil
}

// AdminStalls returns no stalls by default.
func (s AdminFacadeStub) AdminStalls(ctx context.Context) ([]model.Stall, error) {
	if s.StallsFn != nil {
		return s.StallsFn(ctx)
	}
	return nil, nil
}

// Dashboard returns empty figures by default.
func (s AdminFacadeStub) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx)
	}
	return &model.Dashboard{Stalls: map[string]model.StallStats{}}, nil
}

// AdminAction succeeds without a balance by default.
func (s AdminFacadeStub) AdminAction(ctx context.Context, admin string, cmd model.AdminCommand) (*model.AdminResult, error) {
	if s.ActionFn != nil {
		return s.ActionFn(ctx, admin, cmd)
	}
	return &model.AdminResult{}, nil
}

// HealthFacadeStub returns Err from Ping.
type HealthFacadeStub struct {
	Err error
}

// Ping reports the configured error.
func (s HealthFacadeStub) Ping(context.Context) error { return s.Err }

// FoodCourtFacadeStub aggregates all handler facade stubs.
type FoodCourtFacadeStub struct {
	AuthFacadeStub
	CustomerFacadeStub
	StallFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}

// OutboxFacadeStub feeds events to the relay and records what happened to them.
type OutboxFacadeStub struct {
	Batches   [][]model.OrderEvent
	ClaimFn   func(context.Context, int, time.Duration) ([]model.OrderEvent, error)
	PublishFn func(context.Context, model.OrderEvent) error

	mu        sync.Mutex
	claims    int
	published []int64
	marked    []int64
}

// ClaimEvents returns the next configured batch, then nothing.
func (s *OutboxFacadeStub) ClaimEvents(ctx context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit, lease)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims++
	if s.claims <= len(s.Batches) {
		return s.Batches[s.claims-1], nil
	}
	return nil, nil
}

// PublishEvent records the event unless PublishFn fails.
func (s *OutboxFacadeStub) PublishEvent(ctx context.Context, event model.OrderEvent) error {
	if s.PublishFn != nil {
		if err := s.PublishFn(ctx, event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, event.ID)
	return nil
}

// MarkEventPublished records the acknowledged id.
func (s *OutboxFacadeStub) MarkEventPublished(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, id)
	return nil
}

// Published returns ids handed to PublishEvent.
func (s *OutboxFacadeStub) Published() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.published...)
}

// Marked returns ids acknowledged through MarkEventPublished.
func (s *OutboxFacadeStub) Marked() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.marked...)
}

// RelayObserverStub counts relay outcomes.
type RelayObserverStub struct {
	mu       sync.Mutex
	OK       int
	Failures int
}

// EventRelayed records one outcome.
func (o *RelayObserverStub) EventRelayed(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ok {
		o.OK++
	} else {
		o.Failures++
	}
}

// Counts returns successes and failures seen so far.
func (o *RelayObserverStub) Counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.OK, o.Failures
}

// PublisherStub records published order events.
type PublisherStub struct {
	Err error

	mu     sync.Mutex
	events []model.OrderEvent
	closed bool
}

// Publish stores event unless Err is set.
func (p *PublisherStub) Publish(ctx context.Context, event model.OrderEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Close marks the publisher closed.
func (p *PublisherStub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Events returns a copy of published events.
func (p *PublisherStub) Events() []model.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.OrderEvent(nil), p.events...)
}
