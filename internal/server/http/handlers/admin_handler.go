package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// AdminHandler serves administration views and account actions.
// Internal errors are reported verbatim to operators.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Get handles GET /admin?resource=users|tokens|stalls|dashboard.
func (h *AdminHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	switch resource := c.Query("resource"); resource {
	case "users":
		users, err := h.facade.AdminUsers(ctx)
		if err != nil {
			respondError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, dto.NewAccountResponses(users))
	case "tokens":
		orders, err := h.facade.AdminOrders(ctx)
		if err != nil {
			respondError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
	case "stalls":
		stalls, err := h.facade.AdminStalls(ctx)
		if err != nil {
			respondError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, dto.NewStallResponses(stalls))
	case "dashboard":
		dashboard, err := h.facade.Dashboard(ctx)
		if err != nil {
			respondError(c, err, true)
			return
		}
		c.JSON(http.StatusOK, dto.NewDashboardResponse(dashboard))
	default:
		writeError(c, http.StatusBadRequest, "unknown resource "+resource)
	}
}

// Post handles POST /admin.
func (h *AdminHandler) Post(c *gin.Context) {
	admin, ok := CurrentAdmin(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req dto.AdminActionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.facade.AdminAction(c.Request.Context(), admin.Username, req.Command())
	if err != nil {
		respondError(c, err, true)
		return
	}

	resp := dto.AdminActionResponse{OK: true}
	if result.NewBalance != nil {
		balance := dto.NewMoney(*result.NewBalance)
		resp.NewBalance = &balance
	}
	c.JSON(http.StatusOK, resp)
}
