package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-quiz/app"
	"github.com/mbolis/quick-quiz/httpx"
	"github.com/mbolis/quick-quiz/log"
	"github.com/mbolis/quick-quiz/routes/middlewares"
)

// Dashboard lists the quizzes the user created and the ones they took.
func Dashboard(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middlewares.Session(r.Context())

		dashboard, err := app.QuizAPI(session).Dashboard(r.Context())
		if err != nil {
			httpx.LogError(w, "dashboard.fetch", err)
			return
		}

		render.JSON(w, r, dashboard)
	}
}

func CreateQuiz(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middlewares.Session(r.Context())

		req := quizRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Title == nil || *req.Title == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "create_quiz.validate", "title is required")
			return
		}
		fields, err := req.fields()
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "create_quiz.validate", "%s", err)
			return
		}

		quiz, err := app.QuizAPI(session).CreateQuiz(r.Context(), fields)
		if err != nil {
			httpx.LogError(w, "create_quiz", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, quiz)
	}
}
