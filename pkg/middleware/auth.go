package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/richxcame/salon-safety/pkg/common"
	"github.com/richxcame/salon-safety/pkg/logger"
	"go.uber.org/zap"
)

// RoleAdmin is the only role allowed through the trust and safety routes
const RoleAdmin = "admin"

// Context keys set by AuthMiddleware
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Claims are the JWT claims issued by the platform auth service
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the caller's id and role
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AppErrorResponse(c, common.NewUnauthorizedError("authorization header required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			common.AppErrorResponse(c, common.NewUnauthorizedError("authorization header format must be Bearer <token>"))
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				common.AppErrorResponse(c, common.NewUnauthorizedError("token expired"))
				c.Abort()
				return
			}
			logger.WithContext(c.Request.Context()).Debug("invalid token", zap.Error(err))
			common.AppErrorResponse(c, common.NewUnauthorizedError("invalid token"))
			c.Abort()
			return
		}
		if !token.Valid {
			common.AppErrorResponse(c, common.NewUnauthorizedError("invalid token"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole rejects callers whose token role is not one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		common.AppErrorResponse(c, common.NewForbiddenError("insufficient permissions"))
		c.Abort()
	}
}

// AdminOnly combines token validation with the admin role check
func AdminOnly(secret string) []gin.HandlerFunc {
	return []gin.HandlerFunc{AuthMiddleware(secret), RequireRole(RoleAdmin)}
}
