package security

import (
	"net/http"
	"strings"

	"github.com/lucasz92/zenitwms-sub000/pkg/roles"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware validates the identity provider token and stores the user.
func JWTMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid token"})
			return
		}

		SetCurrentUser(c, claims.User())
		c.Next()
	}
}

// Authorize ensures the user has the required role.
func Authorize(requiredRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "Forbidden: insufficient permissions"})
			return
		}

		if !roles.Role(user.Role).HasPermission(requiredRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "Forbidden: insufficient permissions"})
			return
		}

		c.Next()
	}
}
