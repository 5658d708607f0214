package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, username, pin string) (*model.Account, error)
	Login(ctx context.Context, username, pin string) (*model.Account, string, error)
	StallLogin(ctx context.Context, stallID, pin string) (*model.Stall, string, error)
	AdminLogin(ctx context.Context, username, password string) (string, error)
	ParseSession(token string) (model.Session, error)
	SessionTTL() time.Duration
}

// CustomerFacade covers the customer's balance and order operations.
type CustomerFacade interface {
	Stalls(ctx context.Context) ([]model.Stall, error)
	Balance(ctx context.Context, username string) (decimal.Decimal, error)
	PlaceOrder(ctx context.Context, req model.PlaceOrderRequest) (*model.PlacedOrder, error)
	CustomerOrders(ctx context.Context, username string) ([]model.Order, error)
}

// StallFacade covers the stall owner's token queue.
type StallFacade interface {
	StallOrders(ctx context.Context, stallID string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, stallID string, orderID int64, status model.OrderStatus) (*model.Order, error)
}

// AdminFacade exposes administration views and account actions.
type AdminFacade interface {
	AdminUsers(ctx context.Context) ([]model.Account, error)
	AdminOrders(ctx context.Context) ([]model.Order, error)
	AdminStalls(ctx context.Context) ([]model.Stall, error)
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	AdminAction(ctx context.Context, admin string, cmd model.AdminCommand) (*model.AdminResult, error)
}

// HealthFacade reports storage availability.
type HealthFacade interface {
	Ping(ctx context.Context) error
}

// FoodCourtFacade aggregates the full set of operations used across handlers.
type FoodCourtFacade interface {
	AuthFacade
	CustomerFacade
	StallFacade
	AdminFacade
	HealthFacade
}
