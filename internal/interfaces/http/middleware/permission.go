package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leaftolife/backend/internal/interfaces/http/dto"
)

// PermissionConfig holds permission middleware configuration
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a single permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that passes when the user holds
// at least one of the listed permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig is RequireAnyPermission with custom
// configuration
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortForbidden(c, cfg, permissions, "no authentication claims")
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			abortForbidden(c, cfg, permissions, "missing permission")
			return
		}

		c.Next()
	}
}

// RequireRole creates middleware that passes only for the given role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortForbidden(c, PermissionConfig{}, nil, "no authentication claims")
			return
		}

		if claims.Role != role {
			abortForbidden(c, PermissionConfig{}, nil, "role mismatch")
			return
		}

		c.Next()
	}
}

func abortForbidden(c *gin.Context, cfg PermissionConfig, required []string, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("permission denied",
			zap.String("path", c.Request.URL.Path),
			zap.Strings("required_any", required),
			zap.String("reason", reason))
	}

	c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeForbidden),
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
			"You do not have permission to perform this action",
			GetRequestID(c)))
}
