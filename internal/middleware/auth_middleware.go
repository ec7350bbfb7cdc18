package middleware

import (
	"strings"

	"resaleMarket/business/feed"
	"resaleMarket/pkg/logger"
	"resaleMarket/pkg/utils"

	"github.com/labstack/echo/v4"
)

const UserIDKey = "user_id"

// OptionalAuth resolves the caller's identity from a bearer token when one is
// present and valid. Feed and search never reject a request here: missing or
// bad tokens just leave the request anonymous.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" || secret == "" {
				return next(c)
			}

			tokenParts := strings.SplitN(authHeader, " ", 2)
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return next(c)
			}

			claims, err := utils.ParseJWT(strings.TrimSpace(tokenParts[1]), secret)
			if err != nil {
				logger.Debug("auth_token_ignored",
					"trace_id", feed.TraceIDFromContext(c.Request().Context()),
					"error", err,
				)
				return next(c)
			}

			if id := claims.Identity(); id != "" {
				c.Set(UserIDKey, id)
			}
			if claims.Role != "" {
				c.Set("role", claims.Role)
			}

			return next(c)
		}
	}
}

// UserID returns the identity set by OptionalAuth, or "" for anonymous calls.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}
