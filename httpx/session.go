package httpx

import (
	"net/http"
	"time"

	"github.com/mbolis/quick-quiz/auth"
)

const SessionCookie = "qq_session"

// SetSessionCookie hands the session id to the browser. The cookie lives
// until the session expires, but never longer than ttl.
func SetSessionCookie(w http.ResponseWriter, session *auth.Session, ttl time.Duration) {
	maxAge := time.Until(session.Expires)
	if maxAge > ttl {
		maxAge = ttl
	}
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     SessionCookie,
		Value:    session.ID,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the session id carried by the request, if any.
func SessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
