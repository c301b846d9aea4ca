package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"docclock-api/internal/auth"
)

// Context keys set by Auth for downstream handlers.
const (
	UserIDKey = "user_id"
	EmailKey  = "user_email"
	RoleKey   = "user_role"
)

func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing")
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format. Use: Bearer <token>")
			}

			claims, err := auth.ParseToken(parts[1], secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(EmailKey, claims.Email)
			c.Set(RoleKey, claims.Role)
			return next(c)
		}
	}
}
