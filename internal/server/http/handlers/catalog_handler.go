package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/server/http/dto"
)

// CatalogHandler lists stalls and menus.
type CatalogHandler struct {
	facade CustomerFacade
}

func NewCatalogHandler(facade CustomerFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /stalls.
func (h *CatalogHandler) List(c *gin.Context) {
	stalls, err := h.facade.Stalls(c.Request.Context())
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, dto.NewStallResponses(stalls))
}
