package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfilment lifecycle of a token.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusServed  OrderStatus = "Served"
)

// CanTransition reports whether a token may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	return s == OrderStatusPending && next == OrderStatusServed
}

// OrderItem is an immutable snapshot of a purchased menu line.
type OrderItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a placed order carrying its per-stall token number.
type Order struct {
	ID        int64
	TokenNo   int64
	Username  string
	StallID   string
	StallName string
	Items     []OrderItem
	Total     decimal.Decimal
	Status    OrderStatus
	RequestID string
	CreatedAt time.Time
	ServedAt  *time.Time
}

// OrderLine is a requested menu item and quantity.
type OrderLine struct {
	ItemID   int64
	Quantity int
}

// PlaceOrderRequest carries customer input for the placement transaction.
type PlaceOrderRequest struct {
	Username     string
	StallID      string
	Lines        []OrderLine
	ClaimedTotal decimal.Decimal
	PIN          string
	RequestID    string
}

// PlacedOrder is the outcome of a successful placement.
type PlacedOrder struct {
	OrderID    int64
	TokenNo    int64
	NewBalance decimal.Decimal
	Replayed   bool
}
