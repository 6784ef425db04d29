package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MaasMateus/desafio-serasa/internal/auth"
)

// userIDKey is the echo context key the acting user's public id is stored
// under once the bearer token checks out.
const userIDKey = "user_id"

// RequireAuth rejects requests without a valid bearer token and exposes
// the token's subject to downstream handlers via UserID.
func RequireAuth(tm *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			}
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid Authorization header format"})
			}

			userID, err := tm.Parse(tokenStr)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's public id, or "" when the
// request never went through RequireAuth.
func UserID(c echo.Context) string {
	if v, ok := c.Get(userIDKey).(string); ok {
		return v
	}
	return ""
}
