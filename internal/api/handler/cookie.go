package handler

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// CookieConfig controls session-cookie attributes. Production requires
// Secure + SameSite=None (cross-site SPA); development uses Lax over HTTP.
type CookieConfig struct {
	TTL        time.Duration
	Production bool
}

func (cc CookieConfig) newSessionCookie(token string) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cc.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cc.Production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (cc CookieConfig) clearSessionCookie() *http.Cookie {
	c := cc.newSessionCookie("")
	c.MaxAge = -1
	return c
}
