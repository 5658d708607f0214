package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// StallHandler serves a stall owner's token queue.
type StallHandler struct {
	facade StallFacade
}

// NewStallHandler constructs StallHandler.
func NewStallHandler(facade StallFacade) *StallHandler {
	return &StallHandler{facade: facade}
}

// List handles GET /tokens/stall.
func (h *StallHandler) List(c *gin.Context) {
	stall, ok := CurrentStall(c)
	if !ok {
		unauthorized(c)
		return
	}
	orders, err := h.facade.StallOrders(c.Request.Context(), stall.StallID)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

// Update handles PATCH /tokens/stall.
func (h *StallHandler) Update(c *gin.Context) {
	stall, ok := CurrentStall(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), stall.StallID, req.TokenID, model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, dto.UpdateStatusResponse{ID: order.ID, Status: string(order.Status)})
}
