package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leaftolife/backend/internal/domain/shared"
	"github.com/leaftolife/backend/internal/infrastructure/auth"
	"github.com/leaftolife/backend/internal/infrastructure/logger"
	"github.com/leaftolife/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey      = "jwt_claims"
	JWTUserIDKey      = "jwt_user_id"
	JWTUsernameKey    = "jwt_username"
	JWTPermissionsKey = "jwt_permissions"
	authHeaderKey     = "Authorization"
	bearerPrefix      = "Bearer "
)

// TokenValidator validates an access token and returns its claims.
// Implemented by the identity application service, which layers blacklist
// checks on top of signature validation.
type TokenValidator interface {
	ValidateAccess(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	Validator TokenValidator
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTConfig returns the middleware defaults: health and login
// endpoints stay open.
func DefaultJWTConfig(validator TokenValidator) JWTConfig {
	return JWTConfig{
		Validator: validator,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	}
}

// JWTAuth creates JWT authentication middleware
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return JWTAuthWithConfig(DefaultJWTConfig(validator))
}

// JWTAuthWithConfig creates JWT authentication middleware with custom
// configuration
func JWTAuthWithConfig(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, cfg, nil, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, cfg, nil, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, nil, "Missing token")
			return
		}

		claims, err := cfg.Validator.ValidateAccess(c.Request.Context(), tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTPermissionsKey, claims.Permissions)

		log := logger.FromContext(c.Request.Context())
		ctx, _ := logger.WithUserID(c.Request.Context(), log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg JWTConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("authentication failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("reason", message),
			zap.Error(err))
	}

	code := dto.ErrCodeUnauthorized
	responseMessage := "Authentication required"

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		responseMessage = domainErr.Message
	}

	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, responseMessage, GetRequestID(c)))
}

// GetJWTClaims returns the authenticated request's claims, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetJWTUserID returns the authenticated user's ID, or empty
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTUsername returns the authenticated user's username, or empty
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}
