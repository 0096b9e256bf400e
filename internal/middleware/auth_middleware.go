// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/domain/user"
	"visatrack-service/internal/pkg/jwt"
	"visatrack-service/internal/pkg/response"
	"visatrack-service/internal/pkg/session"
)

type AuthMiddleware struct {
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
}

func NewAuthMiddleware(jwtManager *jwt.Manager, sessionManager *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
	}
}

// Auth validates the bearer token and confirms its session is still live in
// redis, so revoked tokens die before their JWT expiry.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.jwtManager.Verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		if _, err := m.sessionManager.Get(c.Request.Context(), claims.ID); err != nil {
			response.Unauthorized(c, "session expired")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("jti", claims.ID)
		c.Next()
	}
}

// RequireAdmin gates a route to admin accounts. Must follow Auth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != user.RoleAdmin {
			response.Forbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the token query param for websocket upgrades.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Query("token")
}

// GetUserID returns the authenticated user's id from the request context.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetRole returns the authenticated user's role from the request context.
func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// GetJTI returns the session token id from the request context.
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}
