package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avcastro/vaultbox/internal/server/auth"
	"github.com/avcastro/vaultbox/internal/server/models"
)

const principalKey = "principal_id"

// JWTAuth validates the Bearer token and stores the principal id in the
// request context.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respError(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		principal, err := auth.PrincipalFromToken(parts[1], secret)
		if err != nil {
			respError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// principalFrom returns the authenticated principal set by JWTAuth.
func principalFrom(c *gin.Context) models.PrincipalID {
	v, _ := c.Get(principalKey)
	principal, _ := v.(models.PrincipalID)
	return principal
}
