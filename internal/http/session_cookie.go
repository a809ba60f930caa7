package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName es la cookie que transporta la credencial de sesion.
const SessionCookieName = "token"

// SessionCookies escribe y limpia la cookie de sesion. Transporte puro:
// la firma y validacion del token vive en service.SessionService.
type SessionCookies struct {
	secure bool
	ttl    time.Duration
}

func NewSessionCookies(secure bool, ttl time.Duration) *SessionCookies {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionCookies{secure: secure, ttl: ttl}
}

// Set emite la cookie de sesion: inaccesible a scripts y same-site estricta.
func (s *SessionCookies) Set(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear invalida la cookie de sesion.
func (s *SessionCookies) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetSessionToken lee la cookie de sesion del request, si existe.
func GetSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
