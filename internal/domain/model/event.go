package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind names an order lifecycle notification.
type EventKind string

const (
	EventOrderPlaced EventKind = "order.placed"
	EventOrderServed EventKind = "order.served"
)

// OrderEvent is written to the outbox in the same transaction as the order change.
type OrderEvent struct {
	ID         int64           `json:"-"`
	Kind       EventKind       `json:"kind"`
	OrderID    int64           `json:"order_id"`
	TokenNo    int64           `json:"token_no"`
	StallID    string          `json:"stall_id"`
	Username   string          `json:"username"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds an event describing order.
func NewOrderEvent(kind EventKind, order *Order, at time.Time) OrderEvent {
	return OrderEvent{
		Kind:       kind,
		OrderID:    order.ID,
		TokenNo:    order.TokenNo,
		StallID:    order.StallID,
		Username:   order.Username,
		Total:      order.Total,
		OccurredAt: at.UTC(),
	}
}
