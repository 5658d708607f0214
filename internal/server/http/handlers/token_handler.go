package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// IdempotencyKeyHeader lets a client retry POST /tokens without paying twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// TokenHandler places orders and lists the customer's tokens.
type TokenHandler struct {
	facade CustomerFacade
}

// NewTokenHandler constructs TokenHandler.
func NewTokenHandler(facade CustomerFacade) *TokenHandler {
	return &TokenHandler{facade: facade}
}

// Place handles POST /tokens.
func (h *TokenHandler) Place(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req dto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	placed, err := h.facade.PlaceOrder(c.Request.Context(), model.PlaceOrderRequest{
		Username:     user.Username,
		StallID:      req.StallID,
		Lines:        req.Lines(),
		ClaimedTotal: req.Total.Decimal,
		PIN:          req.PIN,
		RequestID:    c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		respondError(c, err, false)
		return
	}

	status := http.StatusCreated
	if placed.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.PlaceOrderResponse{
		OrderID:    placed.OrderID,
		TokenNo:    placed.TokenNo,
		NewBalance: dto.NewMoney(placed.NewBalance),
		Replayed:   placed.Replayed,
	})
}

// List handles GET /tokens.
func (h *TokenHandler) List(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}
	orders, err := h.facade.CustomerOrders(c.Request.Context(), user.Username)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}
