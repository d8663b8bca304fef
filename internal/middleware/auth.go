package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware
const (
	ContextUser   = "user"
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "session_token"
)

// TokenFromRequest returns the session token from the Authorization header or the session cookie
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware validates the session token for protected routes
func AuthMiddleware(sessions *auth.Sessions, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, sessions, log) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through
func OptionalAuth(sessions *auth.Sessions, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if TokenFromRequest(c) != "" {
			if !authenticate(c, sessions, log) {
				return
			}
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, sessions *auth.Sessions, log *zap.Logger) bool {
	token := TokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		c.Abort()
		return false
	}

	v, err := sessions.Validate(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidSession) && !errors.Is(err, auth.ErrSessionExpired) {
			log.Error("session validation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		}
		c.Abort()
		return false
	}

	if v.RenewedToken != "" {
		token = v.RenewedToken
		c.Header(auth.RenewHeader, token)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.CookieName, token, int(auth.SessionLifetime.Seconds()), "/", "", false, true)
	}

	c.Set(ContextUser, v.User)
	c.Set(ContextUserID, v.User.ID)
	c.Set(ContextRole, v.User.Role)
	c.Set(ContextToken, token)
	return true
}

// CurrentUser returns the authenticated user, or nil on anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// RequirePermission rejects callers whose role lacks perm. It must run after AuthMiddleware.
func RequirePermission(policy *auth.Policy, perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !policy.Can(u.Role, perm) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
