package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names carrying the session tokens for browser clients.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// SessionCookies writes the token pair as HttpOnly cookies.
type SessionCookies struct {
	Domain string
	Secure bool
}

func NewSessionCookies(domain string, secure bool) *SessionCookies {
	return &SessionCookies{Domain: domain, Secure: secure}
}

func (s *SessionCookies) Set(c *gin.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	s.write(c, AccessCookie, access, secondsUntil(accessExp))
	s.write(c, RefreshCookie, refresh, secondsUntil(refreshExp))
}

func (s *SessionCookies) Clear(c *gin.Context) {
	s.write(c, AccessCookie, "", -1)
	s.write(c, RefreshCookie, "", -1)
}

func (s *SessionCookies) write(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", s.Domain, s.Secure, true)
}

func secondsUntil(t time.Time) int {
	return max(int(time.Until(t).Seconds()), 0)
}
