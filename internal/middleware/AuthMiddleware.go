package middleware

import (
	"net/http"
	"strings"

	"signlearn/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the caller's identity. The credential arrives as
// "Authorization: Bearer <jwt>" or a bare "x-access-token" header; the
// Bearer prefix is stripped before validation.
func AuthMiddleware(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetHeader("x-access-token")
		if accessToken == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header format"})
				return
			}
			accessToken = parts[1]
		}

		email, err := tokens.ValidateAccessToken(accessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set("email", email)
		c.Next()
	}
}
