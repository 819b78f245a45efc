package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meridiancredit/investor-portal/internal/api/handler"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

// Session gates protected routes on the signed session cookie. A missing
// cookie and an invalid one reject with different messages, but neither
// reveals anything about why verification failed.
func Session(sessions ports.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(handler.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := sessions.Verify(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set(handler.ClaimsKey, claims)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}
