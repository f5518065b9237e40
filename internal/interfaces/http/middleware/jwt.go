package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emart/backend/internal/domain/identity"
	"github.com/emart/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys for JWT claims
const (
	ContextKeyClaims   = "jwt_claims"
	ContextKeyUserID   = "jwt_user_id"
	ContextKeyUsername = "jwt_username"
	ContextKeyRole     = "jwt_role"
)

// JWTMiddlewareConfig holds JWT middleware configuration
type JWTMiddlewareConfig struct {
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	SkipPaths      []string
	Logger         *zap.Logger
}

// JWTAuthMiddleware creates a JWT authentication middleware.
// Requests to paths in SkipPaths pass through unauthenticated.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if cfg.TokenBlacklist != nil {
			jti := claims.ID
			if jti != "" {
				blacklisted, berr := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), jti)
				if berr != nil {
					// Availability over strictness when the blacklist store is down
					if cfg.Logger != nil {
						cfg.Logger.Warn("token blacklist check failed",
							zap.Error(berr),
							zap.String("jti", jti),
						)
					}
				} else if blacklisted {
					handleAuthError(c, auth.ErrTokenBlacklisted)
					return
				}
			}

			if claims.IssuedAt != nil {
				invalidated, berr := cfg.TokenBlacklist.IsUserTokenInvalidated(
					c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
				if berr == nil && invalidated {
					handleAuthError(c, auth.ErrTokenBlacklisted)
					return
				}
			}
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireReviewer allows only roles that may review bulk imports
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if !role.CanReview() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "This action requires a manager or admin role",
				},
			})
			return
		}
		c.Next()
	}
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// handleAuthError maps auth errors to 401 responses
func handleAuthError(c *gin.Context, err error) {
	code := "ERR_UNAUTHORIZED"
	message := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = "ERR_TOKEN_EXPIRED"
		message = "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code = "ERR_TOKEN_REVOKED"
		message = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code = "ERR_TOKEN_INVALID"
		message = "Token is invalid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetJWTClaims retrieves JWT claims from the gin context
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID retrieves the authenticated user ID from the gin context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetJWTUsername retrieves the authenticated username from the gin context
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetJWTRole retrieves the authenticated user's role from the gin context
func GetJWTRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}
