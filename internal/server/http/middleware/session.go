package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

const (
	// SessionContextKey is a gin context key for the authenticated model.Session.
	SessionContextKey = "session"
	// SessionCookieName carries the signed session token.
	SessionCookieName = "foodcourt_session"
)

// SessionParser validates session tokens.
type SessionParser interface {
	ParseSession(token string) (model.Session, error)
}

// RequireRole admits requests whose session has the given role.
// Missing or invalid tokens get 401, a valid session of another role gets 403.
func RequireRole(parser SessionParser, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortJSON(c, http.StatusUnauthorized, "authentication required")
			return
		}

		session, err := parser.ParseSession(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortJSON(c, http.StatusUnauthorized, "authentication required")
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal error")
			return
		}
		if session.Role() != role {
			abortJSON(c, http.StatusForbidden, "forbidden")
			return
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireRole.
func CurrentSession(c *gin.Context) (model.Session, bool) {
	val, ok := c.Get(SessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := val.(model.Session)
	return session, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetSessionCookie writes an HttpOnly, SameSite=Strict session cookie living for ttl.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
