package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uzlearn/center-admin-api/internal/models"
	"github.com/uzlearn/center-admin-api/internal/service"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
	"github.com/uzlearn/center-admin-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// SuperAdmin requires the claims already attached by JWT to carry the
// primary operator subject. Destructive catalog routes sit behind it.
func SuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(ContextUserKey)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok || !claims.IsSuperAdmin() {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "super admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
