package middleware

import (
	"net/http"
	"strings"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// SessionVerifier resolves a bearer token to its claims
type SessionVerifier interface {
	VerifySession(token string) (*jwt.Claims, bool)
}

// JWTAuth JWT authentication middleware. Every failure answers the same 401 so
// callers cannot tell an expired token from a forged one.
func JWTAuth(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifier.VerifySession(bearerToken(c))
		if !ok {
			common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// QueryTokenAuth is JWTAuth that also accepts ?token=, for websocket clients
// that cannot set headers.
func QueryTokenAuth(verifier SessionVerifier) gin.HandlerFunc {
	inner := JWTAuth(verifier)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		inner(c)
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}

// GetUsername extracts the token's username from context
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}
