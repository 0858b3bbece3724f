// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"esim-pricing-service/internal/pkg/jwt"
	"esim-pricing-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	jwtManager *jwt.Manager
}

func NewAuthMiddleware(jwtManager *jwt.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
	}
}

// AdminAuth validates the bearer token and requires an admin role. The
// pricing engine itself only checks that an identity is present; this
// middleware is the delegated authorization gate in front of write paths.
func (m *AuthMiddleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.jwtManager.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		if !hasAnyRole(claims.Roles, "admin", "super_admin") {
			response.Forbidden(c, "admin role required")
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// GetAdminID returns the authenticated admin identity, if any.
func GetAdminID(c *gin.Context) (string, bool) {
	v, exists := c.Get("admin_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func hasAnyRole(roles []string, wanted ...string) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}
