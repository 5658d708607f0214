package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// BalanceHandler serves the customer's balance.
type BalanceHandler struct {
	facade CustomerFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade CustomerFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// Get handles GET /users/balance.
func (h *BalanceHandler) Get(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}
	balance, err := h.facade.Balance(c.Request.Context(), user.Username)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: dto.NewMoney(balance)})
}
