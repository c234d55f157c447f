package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-quiz/app"
	"github.com/mbolis/quick-quiz/auth"
	"github.com/mbolis/quick-quiz/httpx"
	"github.com/mbolis/quick-quiz/log"
	"github.com/mbolis/quick-quiz/routes/middlewares"
)

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		session, err := app.Auth.Login(r.Context(), email, pass)
		if err != nil {
			httpx.LogError(w, "login.auth", err)
			return
		}

		err = app.Sessions.Save(r.Context(), session)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_session", err)
			return
		}

		httpx.SetSessionCookie(w, session, app.SessionTTL)
		render.JSON(w, r, map[string]any{
			"name":    session.Name,
			"expires": session.Expires,
		})
	}
}

func Register(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg := auth.Registration{}
		err := render.DecodeJSON(r.Body, &reg)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if reg.Name == "" || reg.Email == "" || reg.Username == "" || reg.Password == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "register.validate", "name, email, username and password are required")
			return
		}

		err = app.Auth.Register(r.Context(), reg)
		if err != nil {
			httpx.LogError(w, "register.auth", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

// Logout discards the session and every editing session opened with it.
func Logout(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middlewares.Session(r.Context())

		app.Editors.CloseAll(session.ID)
		err := app.Sessions.Delete(r.Context(), session.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_session", err)
			return
		}

		httpx.ClearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
