package repository

import (
	"context"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// OrderRepository describes persistence operations with order tokens.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByRequestID(ctx context.Context, username, requestID string) (*model.Order, error)
	ListByUser(ctx context.Context, username string) ([]model.Order, error)
	ListByStall(ctx context.Context, stallID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// MarkServed moves a pending token of stallID to Served. The stall predicate is part of
	// the update; a token of another stall yields errors.ErrNotFoundOrForbidden.
	MarkServed(ctx context.Context, orderID int64, stallID string) (*model.Order, bool, error)
	Dashboard(ctx context.Context) (*model.Dashboard, error)
}

// OutboxRepository stores order events until they are published.
type OutboxRepository interface {
	Append(ctx context.Context, event model.OrderEvent) error
	// Claim leases up to limit unpublished events for lease duration.
	Claim(ctx context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}
