package middleware

import (
	"strings"

	"quizentia_backend/internal/config"
	"quizentia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware extracts and verifies the bearer token, rejecting with 401
// when it is missing, invalid, or expired.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("admin", claims)
		c.Next()
	}
}

// AdminRequired rejects authenticated callers whose role is not admin with
// 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetAdminFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != util.RoleAdmin {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
