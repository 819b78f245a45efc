package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

// AuthHandler exposes the login → OTP → session HTTP surface.
type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionVerifier
	cookies  CookieConfig
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionVerifier, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookies: cookies}
}

// Login verifies credentials and dispatches a one-time passcode.
//
// @Summary      Start login: verify credentials and send a passcode
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tempUserID, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:    "verification code sent",
		TempUserID: tempUserID,
	})
}

// VerifyOTP consumes the passcode and establishes the session.
//
// @Summary      Complete login: verify the passcode and set the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Passcode verification"
// @Success      200   {object}  verifyOTPResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	session, err := h.auth.VerifyOTP(c.Request().Context(), req.TempUserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOTP):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired code"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}

	c.SetCookie(h.cookies.newSessionCookie(session.Token))

	return c.JSON(http.StatusOK, verifyOTPResponse{
		User:  newSessionUser(session.Principal, session.Role),
		Token: session.Token,
	})
}

// CurrentUser returns the authenticated principal with a freshly resolved role.
//
// @Summary      Get the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionUser
// @Failure      401  {object}  map[string]string
// @Router       /auth/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	p, role, err := h.auth.CurrentUser(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session"})
		}
		return err
	}

	return c.JSON(http.StatusOK, newSessionUser(p, role))
}

// Logout revokes the session (when one is present) and clears the cookie.
// Always succeeds: a missing or invalid cookie still yields 200.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		claims, err := h.sessions.Verify(c.Request().Context(), cookie.Value)
		if err == nil {
			if err := h.auth.Logout(c.Request().Context(), claims); err != nil {
				return err
			}
		}
	}

	c.SetCookie(h.cookies.clearSessionCookie())
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}
