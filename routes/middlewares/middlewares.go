package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/mbolis/quick-quiz/auth"
	"github.com/mbolis/quick-quiz/database"
	"github.com/mbolis/quick-quiz/httpx"
	"github.com/mbolis/quick-quiz/log"
)

type contextKey struct {
	name string
}

var sessionKey = &contextKey{"session"}

type SessionLoader interface {
	Get(ctx context.Context, id string) (*auth.Session, error)
}

// SessionAuth loads the login session named by the session cookie, and
// rejects the request when there is none.
func SessionAuth(sessions SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := httpx.SessionID(r)
			if !ok {
				httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "session.cookie")
				return
			}

			session, err := sessions.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, database.ErrNoSession) || errors.Is(err, auth.ErrSessionExpired) {
					httpx.ClearSessionCookie(w)
				}
				httpx.LogError(w, "session.load", err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Session returns the session loaded by SessionAuth.
func Session(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey).(*auth.Session)
	return session
}

// Logger logs one line per request with its status, size and duration.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   m.Code,
			"bytes":    m.Written,
			"duration": m.Duration,
		}).Info("http.request")
	})
}
