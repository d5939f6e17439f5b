package auth

import (
	"log"
	"net/http"
	"strings"

	"grimoire/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is the gin context key under which the middleware stores
// the authenticated user's ID.
const ContextUserIDKey = "userID"

// Middleware creates a gin middleware that requires a valid bearer token.
// It resolves the caller's identity and sets it on the context; handlers
// never parse tokens themselves. The denylist is optional: when nil, logout
// revocation is not enforced.
func Middleware(secret string, denylist *Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access denied, token missing"})
			return
		}

		userID, _, err := jwt.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid token"})
			return
		}

		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), tokenString)
			if err != nil {
				log.Printf("denylist lookup failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Authentication unavailable"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has been revoked"})
				return
			}
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// ExtractToken pulls the bearer token from the Authorization header, falling
// back to the token cookie set by the web client.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	cookie, err := c.Cookie("token")
	if err == nil {
		return cookie
	}

	return ""
}

// UserID returns the authenticated user's ID from the gin context.
func UserID(c *gin.Context) uint {
	id, _ := c.Get(ContextUserIDKey)
	userID, _ := id.(uint)
	return userID
}
