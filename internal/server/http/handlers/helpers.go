package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
	"github.com/polkiloo/foodcourt/internal/server/http/dto"
	"github.com/polkiloo/foodcourt/internal/server/http/middleware"
)

// CurrentUser returns the customer session of the request.
func CurrentUser(c *gin.Context) (model.UserSession, bool) {
	session, _ := middleware.CurrentSession(c)
	user, ok := session.(model.UserSession)
	return user, ok
}

// CurrentStall returns the stall owner session of the request.
func CurrentStall(c *gin.Context) (model.StallOwnerSession, bool) {
	session, _ := middleware.CurrentSession(c)
	stall, ok := session.(model.StallOwnerSession)
	return stall, ok
}

// CurrentAdmin returns the operator session of the request.
func CurrentAdmin(c *gin.Context) (model.AdminSession, bool) {
	session, _ := middleware.CurrentSession(c)
	admin, ok := session.(model.AdminSession)
	return admin, ok
}

// bindJSON decodes the body into dst and answers 400 (or 413) on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func unauthorized(c *gin.Context) {
	writeError(c, http.StatusUnauthorized, "authentication required")
}

// respondError maps domain errors onto HTTP statuses. Validation reasons are
// returned to the caller; internal error text only when exposeInternal is set.
func respondError(c *gin.Context, err error, exposeInternal bool) {
	var funds *domainErrors.InsufficientFundsError
	switch {
	case errors.As(err, &funds):
		balance := dto.NewMoney(funds.Balance)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrInsufficientBalance.Error(), Balance: &balance})
	case errors.Is(err, domainErrors.ErrValidation), errors.Is(err, domainErrors.ErrInvalidAmount):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrTotalMismatch), errors.Is(err, domainErrors.ErrInsufficientBalance):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, pkgAuth.ErrInvalidToken):
		writeError(c, http.StatusUnauthorized, domainErrors.ErrInvalidCredentials.Error())
	case errors.Is(err, domainErrors.ErrForbidden):
		writeError(c, http.StatusForbidden, domainErrors.ErrForbidden.Error())
	case errors.Is(err, domainErrors.ErrNotFoundOrForbidden):
		writeError(c, http.StatusNotFound, domainErrors.ErrNotFoundOrForbidden.Error())
	case errors.Is(err, domainErrors.ErrNotFound):
		writeError(c, http.StatusNotFound, domainErrors.ErrNotFound.Error())
	case errors.Is(err, domainErrors.ErrIdempotencyConflict):
		writeError(c, http.StatusConflict, domainErrors.ErrIdempotencyConflict.Error())
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		writeError(c, http.StatusConflict, domainErrors.ErrAlreadyExists.Error())
	case errors.Is(err, domainErrors.ErrTooManyAttempts):
		writeError(c, http.StatusTooManyRequests, domainErrors.ErrTooManyAttempts.Error())
	default:
		_ = c.Error(err)
		message := "internal error"
		if exposeInternal {
			message = err.Error()
		}
		writeError(c, http.StatusInternalServerError, message)
	}
}

// respondAuthError is respondError for login flows. Messages stay generic and an
// unknown identity is indistinguishable from a wrong secret.
func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		writeError(c, http.StatusBadRequest, "credentials are required")
	case errors.Is(err, domainErrors.ErrNotFound):
		writeError(c, http.StatusUnauthorized, domainErrors.ErrInvalidCredentials.Error())
	default:
		respondError(c, err, false)
	}
}
