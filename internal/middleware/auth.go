package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/service"
)

// Context keys set by Authenticate.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Authenticate verifies the Bearer token and puts the caller's identity into
// the request context.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			dto.HandleError(c, apperror.Unauthorizedf("missing Authorization header"))
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			dto.HandleError(c, apperror.Unauthorizedf("Authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		claims, err := authService.VerifyAccessToken(parts[1])
		if err != nil {
			dto.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			dto.HandleError(c, apperror.Forbiddenf("this endpoint requires the %s role", role))
			c.Abort()
			return
		}
		c.Next()
	}
}

// TeacherOnly allows only authenticated teachers.
func TeacherOnly() gin.HandlerFunc { return requireRole(model.RoleTeacher) }

// StudentOnly allows only authenticated students.
func StudentOnly() gin.HandlerFunc { return requireRole(model.RoleStudent) }

// UserID returns the authenticated user's ID from the context.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

// Role returns the authenticated user's role from the context.
func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}
