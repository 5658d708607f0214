package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/adapter/events"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

// FoodCourtFacade joins the use cases behind one surface for the HTTP layer and the relay.
type FoodCourtFacade struct {
	auth      *usecase.AuthUseCase
	balance   *usecase.BalanceUseCase
	orders    *usecase.OrderUseCase
	admin     *usecase.AdminUseCase
	store     repository.Store
	publisher events.Publisher
}

func NewFoodCourtFacade(
	auth *usecase.AuthUseCase,
	balance *usecase.BalanceUseCase,
	orders *usecase.OrderUseCase,
	admin *usecase.AdminUseCase,
	store repository.Store,
	publisher events.Publisher,
) *FoodCourtFacade {
	return &FoodCourtFacade{
		auth:      auth,
		balance:   balance,
		orders:    orders,
		admin:     admin,
		store:     store,
		publisher: publisher,
	}
}

func (f *FoodCourtFacade) Register(ctx context.Context, username, pin string) (*model.Account, error) {
	return f.auth.Register(ctx, username, pin)
}

func (f *FoodCourtFacade) Login(ctx context.Context, username, pin string) (*model.Account, string, error) {
	return f.auth.Login(ctx, username, pin)
}

func (f *FoodCourtFacade) StallLogin(ctx context.Context, stallID, pin string) (*model.Stall, string, error) {
	return f.auth.StallLogin(ctx, stallID, pin)
}

func (f *FoodCourtFacade) AdminLogin(ctx context.Context, username, password string) (string, error) {
	return f.auth.AdminLogin(ctx, username, password)
}

func (f *FoodCourtFacade) ParseSession(token string) (model.Session, error) {
	return f.auth.ParseSession(token)
}

func (f *FoodCourtFacade) SessionTTL() time.Duration {
	return f.auth.SessionTTL()
}

func (f *FoodCourtFacade) Stalls(ctx context.Context) ([]model.Stall, error) {
	return f.orders.ListStalls(ctx)
}

func (f *FoodCourtFacade) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	return f.balance.Balance(ctx, username)
}

func (f *FoodCourtFacade) PlaceOrder(ctx context.Context, req model.PlaceOrderRequest) (*model.PlacedOrder, error) {
	return f.orders.Place(ctx, req)
}

func (f *FoodCourtFacade) CustomerOrders(ctx context.Context, username string) ([]model.Order, error) {
	return f.orders.ListForCustomer(ctx, username)
}

func (f *FoodCourtFacade) StallOrders(ctx context.Context, stallID string) ([]model.Order, error) {
	return f.orders.ListForStall(ctx, stallID)
}

func (f *FoodCourtFacade) UpdateOrderStatus(ctx context.Context, stallID string, orderID int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, stallID, orderID, status)
}

func (f *FoodCourtFacade) AdminUsers(ctx context.Context) ([]model.Account, error) {
	return f.admin.Users(ctx)
}

func (f *FoodCourtFacade) AdminOrders(ctx context.Context) ([]model.Order, error) {
	return f.admin.Orders(ctx)
}

func (f *FoodCourtFacade) AdminStalls(ctx context.Context) ([]model.Stall, error) {
	return f.admin.Stalls(ctx)
}

func (f *FoodCourtFacade) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	return f.admin.Dashboard(ctx)
}

func (f *FoodCourtFacade) AdminAction(ctx context.Context, admin string, cmd model.AdminCommand) (*model.AdminResult, error) {
	return f.admin.Execute(ctx, admin, cmd)
}

func (f *FoodCourtFacade) Ping(ctx context.Context) error {
	return f.store.Ping(ctx)
}

func (f *FoodCourtFacade) ClaimEvents(ctx context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error) {
	return f.store.Outbox().Claim(ctx, limit, lease)
}

func (f *FoodCourtFacade) PublishEvent(ctx context.Context, event model.OrderEvent) error {
	return f.publisher.Publish(ctx, event)
}

func (f *FoodCourtFacade) MarkEventPublished(ctx context.Context, id int64) error {
	return f.store.Outbox().MarkPublished(ctx, id)
}
