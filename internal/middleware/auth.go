package middleware

import (
	"net/http"
	"strings"

	"realestate-catalog/internal/auth"
	"realestate-catalog/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token signed with secret. With
// requireWrite set the token must also carry the editor role. An empty
// secret disables the check.
func AuthMiddleware(secret string, requireWrite bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, http.StatusUnauthorized, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := auth.ValidateJWT(parts[1], secret)
		if err != nil {
			abortUnauthorized(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if requireWrite && !claims.CanWrite() {
			abortUnauthorized(c, http.StatusForbidden, "token does not allow catalog changes")
			return
		}

		c.Set("subject", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, status int, message string) {
	code := errors.ErrCodeUnauthorized
	if status == http.StatusForbidden {
		code = errors.ErrCodeForbidden
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"code":    code,
		},
	})
}
