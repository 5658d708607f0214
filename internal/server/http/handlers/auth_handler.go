package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/server/http/dto"
	"github.com/polkiloo/foodcourt/internal/server/http/middleware"
)

// AuthHandler processes registration, the three login flows and logout.
type AuthHandler struct {
	facade       AuthFacade
	secureCookie bool
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, secureCookie bool) *AuthHandler {
	return &AuthHandler{facade: facade, secureCookie: secureCookie}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	acc, err := h.facade.Register(c.Request.Context(), req.Username, req.PIN)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{UID: acc.UID})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	acc, token, err := h.facade.Login(c.Request.Context(), req.Username, req.PIN)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	middleware.SetSessionCookie(c, token, h.facade.SessionTTL(), h.secureCookie)
	c.JSON(http.StatusOK, dto.LoginResponse{Username: acc.Username, UID: acc.UID, Balance: dto.NewMoney(acc.Balance)})
}

// StallLogin handles POST /auth/stall-login.
func (h *AuthHandler) StallLogin(c *gin.Context) {
	var req dto.StallLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	stall, token, err := h.facade.StallLogin(c.Request.Context(), req.StallID, req.PIN)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	middleware.SetSessionCookie(c, token, h.facade.SessionTTL(), h.secureCookie)
	c.JSON(http.StatusOK, dto.StallLoginResponse{StallID: stall.StallID, Name: stall.Name})
}

// AdminLogin handles POST /auth/admin-login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.facade.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	middleware.SetSessionCookie(c, token, h.facade.SessionTTL(), h.secureCookie)
	c.JSON(http.StatusOK, dto.AdminLoginResponse{Username: req.Username})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.secureCookie)
	c.Status(http.StatusNoContent)
}
