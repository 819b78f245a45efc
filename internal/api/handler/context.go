package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
)

// ClaimsKey is the echo context key under which the session middleware
// stores the decoded claims.
const ClaimsKey = "session_claims"

// ctxClaims extracts the session claims injected by the Session middleware
// and fast-fails before any service call: presence of a populated UserID
// proves the middleware ran.
func ctxClaims(c echo.Context) (*domain.SessionClaims, error) {
	claims, _ := c.Get(ClaimsKey).(*domain.SessionClaims)
	if claims == nil || claims.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
