package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type OrderLineRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// PlaceOrderRequest is the body of POST /tokens. The customer comes from the session.
type PlaceOrderRequest struct {
	StallID string             `json:"stall_id"`
	Items   []OrderLineRequest `json:"items"`
	Total   Money              `json:"total"`
	PIN     string             `json:"pin"`
}

// Lines converts requested items to domain order lines.
func (r PlaceOrderRequest) Lines() []model.OrderLine {
	return lo.Map(r.Items, func(l OrderLineRequest, _ int) model.OrderLine {
		return model.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity}
	})
}

type PlaceOrderResponse struct {
	OrderID    int64 `json:"order_id"`
	TokenNo    int64 `json:"token_no"`
	NewBalance Money `json:"new_balance"`
	Replayed   bool  `json:"replayed,omitempty"`
}

type OrderItemResponse struct {
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}

type OrderResponse struct {
	ID        int64               `json:"id"`
	TokenNo   int64               `json:"token_no"`
	Username  string              `json:"username"`
	StallID   string              `json:"stall_id"`
	StallName string              `json:"stall_name"`
	Items     []OrderItemResponse `json:"items"`
	Total     Money               `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	ServedAt  *time.Time          `json:"served_at,omitempty"`
}

// NewOrderResponses maps orders preserving their order.
func NewOrderResponses(orders []model.Order) []OrderResponse {
	return lo.Map(orders, func(o model.Order, _ int) OrderResponse {
		return NewOrderResponse(o)
	})
}

func NewOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		TokenNo:   o.TokenNo,
		Username:  o.Username,
		StallID:   o.StallID,
		StallName: o.StallName,
		Items: lo.Map(o.Items, func(item model.OrderItem, _ int) OrderItemResponse {
			return OrderItemResponse{Name: item.Name, Price: NewMoney(item.Price), Quantity: item.Quantity}
		}),
		Total:     NewMoney(o.Total),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		ServedAt:  o.ServedAt,
	}
}

// UpdateStatusRequest is the body of PATCH /tokens/stall.
type UpdateStatusRequest struct {
	TokenID int64  `json:"token_id"`
	Status  string `json:"status"`
}

type UpdateStatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
