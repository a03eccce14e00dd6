package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/pkg/auth"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextClinicID = "clinic_id"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and sets the caller identity
// in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "missing authorization header",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid authorization format",
			})
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid token",
			})
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUserRole, string(claims.Role))
		if claims.ClinicID != nil {
			c.Set(ContextClinicID, claims.ClinicID.String())
		}
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated
// caller has one of the given roles.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := model.UserRole(c.GetString(ContextUserRole))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "permission denied",
		})
	}
}
